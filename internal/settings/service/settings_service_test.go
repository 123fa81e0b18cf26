package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSettings(t *testing.T) (*SettingsService, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSettingsService(client), mr
}

func TestTheme(t *testing.T) {
	svc, mr := setupSettings(t)
	ctx := context.Background()

	t.Run("defaults to dark when unset", func(t *testing.T) {
		theme, err := svc.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, ThemeDark, theme)
	})

	t.Run("round-trips light", func(t *testing.T) {
		require.NoError(t, svc.SetTheme(ctx, ThemeLight))

		theme, err := svc.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, ThemeLight, theme)
	})

	t.Run("rejects unknown values on write", func(t *testing.T) {
		require.ErrorIs(t, svc.SetTheme(ctx, "sepia"), ErrInvalidTheme)
	})

	t.Run("unrecognized stored value falls back to dark and resets", func(t *testing.T) {
		mr.Set("settings:theme", "solarized")

		theme, err := svc.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, ThemeDark, theme)
		assert.False(t, mr.Exists("settings:theme"))
	})
}
