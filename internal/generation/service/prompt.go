package service

import (
	"fmt"
	"strings"

	"github.com/buildflow-ai/ai-builder-backend/internal/generation/domain"
	personas "github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

func buildProjectPrompt(req domain.AIRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert developer in every programming language and framework. Create a complete, working project from the specification below:\n\n")
	b.WriteString("**PROJECT SPECIFICATION:**\n")
	fmt.Fprintf(&b, "- Description: %s\n", req.Prompt)
	fmt.Fprintf(&b, "- Type: %s\n", req.ProjectType)
	fmt.Fprintf(&b, "- Language: %s\n", req.Language)
	fmt.Fprintf(&b, "- Framework: %s\n", req.Framework)
	fmt.Fprintf(&b, "- Design persona: %s - %s\n", req.Persona.Name, req.Persona.Description)
	fmt.Fprintf(&b, "- Colors: %s\n", strings.Join(req.Persona.Style.Colors, ", "))
	fmt.Fprintf(&b, "- Fonts: %s\n", strings.Join(req.Persona.Style.Fonts, ", "))
	fmt.Fprintf(&b, "- Layout: %s\n", req.Persona.Style.Layout)
	fmt.Fprintf(&b, "- Spacing: %s\n", req.Persona.Style.Spacing)
	if len(req.AdditionalRequirements) > 0 {
		fmt.Fprintf(&b, "- Additional requirements: %s\n", strings.Join(req.AdditionalRequirements, ", "))
	}
	if req.Persona.CustomPrompt != "" {
		fmt.Fprintf(&b, "- Persona notes: %s\n", req.Persona.CustomPrompt)
	}

	b.WriteString(`
**INSTRUCTIONS:**
1. Create a COMPLETE, WORKING project
2. Include EVERY required file (HTML, CSS, JS, config files, package.json, etc.)
3. The code must be READY TO RUN without errors
4. Apply the specified persona's design
5. Use modern features and best practices
6. Add explanatory comments in the code
7. Use an organized folder structure

**RESPONSE FORMAT:**
Reply with JSON in exactly this structure:
{
  "files": [
    {
      "path": "path/to/file",
      "content": "complete file content",
      "language": "file language"
    }
  ],
  "summary": "Detailed summary of what was created",
  "nextSteps": ["next steps to run the project"],
  "buildCommands": ["commands for build/installation"],
  "runCommands": ["commands to run the project"]
}

**IMPORTANT:**
- Produce REAL, WORKING code, not placeholders
- Include EVERY required file
- Follow the language/framework best practices
- The project must run immediately after installing dependencies
`)

	return b.String()
}

func buildTestPrompt(files []projects.ProjectFile, language, framework string) string {
	var b strings.Builder

	b.WriteString("You are a code quality and testing specialist. Analyze the project below and produce a thorough review:\n\n")
	b.WriteString("**PROJECT FILES:**\n")
	for _, f := range files {
		fmt.Fprintf(&b, "%s: %s\n", f.Path, f.Language)
	}
	fmt.Fprintf(&b, "\n**LANGUAGE:** %s\n**FRAMEWORK:** %s\n", language, framework)

	b.WriteString(`
**TASKS:**
1. Analyze the syntax of every file
2. Check for functional errors
3. Evaluate performance and security
4. Create unit and integration tests
5. Suggest improvements

**RESPONSE FORMAT:**
Reply with JSON:
{
  "testResults": [
    {
      "type": "syntax|functionality|performance|security",
      "status": "passed|failed|warning",
      "message": "test message",
      "details": "additional details"
    }
  ],
  "testFiles": [
    {
      "path": "path/to/test/file",
      "content": "test code",
      "language": "language"
    }
  ],
  "improvements": ["improvement suggestions"],
  "summary": "analysis summary"
}
`)

	return b.String()
}

func buildImprovePrompt(files []projects.ProjectFile, feedback string, persona personas.Persona) string {
	var b strings.Builder

	b.WriteString("You are an expert developer. Improve the project based on the feedback:\n\n")
	fmt.Fprintf(&b, "**FEEDBACK:** %s\n\n", feedback)
	b.WriteString("**CURRENT PROJECT:**\n")
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "%s:\n%s", f.Path, f.Content)
	}
	fmt.Fprintf(&b, "\n\n**PERSONA:** %s - %s\n", persona.Name, persona.Description)

	b.WriteString(`
**INSTRUCTIONS:**
1. Apply the requested improvements
2. Keep the design consistent
3. Improve performance and quality
4. Add features where needed

Reply in the same JSON format as before with the updated files.
`)

	return b.String()
}

func buildPersonaPrompt(description, stylePreferences, examples string) string {
	var b strings.Builder

	b.WriteString("Create a new design persona from the description:\n\n")
	fmt.Fprintf(&b, "**DESCRIPTION:** %s\n", description)
	fmt.Fprintf(&b, "**PREFERENCES:** %s\n", stylePreferences)
	if examples != "" {
		fmt.Fprintf(&b, "**EXAMPLES:** %s\n", examples)
	}

	b.WriteString(`
**INSTRUCTIONS:**
1. Create a unique, coherent persona
2. Define a harmonious color palette
3. Pick appropriate fonts
4. Define a layout style
5. Configure spacing

Reply with JSON:
{
  "id": "unique-id",
  "name": "Persona Name",
  "description": "Detailed description",
  "style": {
    "colors": ["#color1", "#color2", "#color3", "#color4"],
    "fonts": ["font1", "font2", "font3"],
    "layout": "minimal|dynamic|structured|creative",
    "spacing": "compact|balanced|generous",
    "animations": true|false,
    "shadows": true|false,
    "border_radius": "none|small|medium|large"
  },
  "custom_prompt": "custom prompt for this persona"
}
`)

	return b.String()
}
