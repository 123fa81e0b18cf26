package domain

import "errors"

// Persona is a named bundle of visual-style parameters attached to a
// generation request to bias the generated project's look and feel.
type Persona struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Style        PersonaStyle `json:"style"`
	CustomPrompt string       `json:"custom_prompt,omitempty"`
	TrainedBy    string       `json:"trained_by,omitempty"`
}

type PersonaStyle struct {
	Colors       []string `json:"colors"`
	Fonts        []string `json:"fonts"`
	Layout       string   `json:"layout"`  // minimal, dynamic, structured, creative
	Spacing      string   `json:"spacing"` // compact, balanced, generous
	Animations   bool     `json:"animations,omitempty"`
	Shadows      bool     `json:"shadows,omitempty"`
	BorderRadius string   `json:"border_radius,omitempty"` // none, small, medium, large
}

const (
	LayoutMinimal    = "minimal"
	LayoutDynamic    = "dynamic"
	LayoutStructured = "structured"
	LayoutCreative   = "creative"

	SpacingCompact  = "compact"
	SpacingBalanced = "balanced"
	SpacingGenerous = "generous"
)

var (
	ErrPersonaNotFound = errors.New("persona not found")
	ErrPersonaBuiltIn  = errors.New("built-in personas cannot be modified")
	ErrInvalidPersona  = errors.New("persona must define at least one color and one font")
)

// Validate checks the minimum style contract required by the prompt builder,
// which embeds colors and fonts verbatim.
func (p *Persona) Validate() error {
	if len(p.Style.Colors) == 0 || len(p.Style.Fonts) == 0 {
		return ErrInvalidPersona
	}
	return nil
}

// Defaults returns the built-in personas. They ship with the binary and are
// never round-tripped through storage.
func Defaults() []Persona {
	return []Persona{
		{
			ID:          "modern-minimalist",
			Name:        "Modern Minimalist",
			Description: "Clean, modern design focused on simplicity",
			Style: PersonaStyle{
				Colors:  []string{"#000000", "#FFFFFF", "#F5F5F5", "#E0E0E0"},
				Fonts:   []string{"Inter", "Roboto", "Poppins"},
				Layout:  LayoutMinimal,
				Spacing: SpacingGenerous,
			},
		},
		{
			ID:          "vibrant-creative",
			Name:        "Vibrant Creative",
			Description: "Colorful, creative design with dynamic elements",
			Style: PersonaStyle{
				Colors:  []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4"},
				Fonts:   []string{"Montserrat", "Open Sans", "Lato"},
				Layout:  LayoutDynamic,
				Spacing: SpacingCompact,
			},
		},
		{
			ID:          "professional-corporate",
			Name:        "Professional Corporate",
			Description: "Professional design for companies and businesses",
			Style: PersonaStyle{
				Colors:  []string{"#2C3E50", "#3498DB", "#FFFFFF", "#ECF0F1"},
				Fonts:   []string{"Source Sans Pro", "Lato", "Roboto"},
				Layout:  LayoutStructured,
				Spacing: SpacingBalanced,
			},
		},
	}
}
