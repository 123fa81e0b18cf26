package service

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const themeKey = "settings:theme"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrInvalidTheme = fmt.Errorf("settings: theme must be %q or %q", ThemeLight, ThemeDark)

// SettingsService persists small app-wide preferences in Redis. Today that
// is just the UI theme.
type SettingsService struct {
	rdb *redis.Client
}

func NewSettingsService(rdb *redis.Client) *SettingsService {
	return &SettingsService{rdb: rdb}
}

// Theme returns the stored theme. A missing or unrecognized value falls
// back to dark; unrecognized values are removed so the next read is clean.
func (s *SettingsService) Theme(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, themeKey).Result()
	if err == redis.Nil {
		return ThemeDark, nil
	}
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	if val != ThemeLight && val != ThemeDark {
		log.Printf("[warn] operation=get_theme discarding unrecognized value %q", val)
		if err := s.rdb.Del(ctx, themeKey).Err(); err != nil {
			return "", fmt.Errorf("reset theme: %w", err)
		}
		return ThemeDark, nil
	}
	return val, nil
}

// SetTheme stores the theme. Only light and dark are accepted.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	if err := s.rdb.Set(ctx, themeKey, theme, 0).Err(); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}
