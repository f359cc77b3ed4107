package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/synapse/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeDefaultsToSystem(t *testing.T) {
	p := New(store.NewMemoryKV(), nil)
	assert.Equal(t, ThemeSystem, p.Theme(context.Background()))
}

func TestSetTheme(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	p := New(kv, nil)

	require.NoError(t, p.SetTheme(ctx, ThemeLight))
	assert.Equal(t, ThemeLight, p.Theme(ctx))

	raw, ok, err := kv.Get(ctx, ThemeKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "light", raw)

	assert.ErrorIs(t, p.SetTheme(ctx, "neon"), ErrUnknownTheme)
	assert.Equal(t, ThemeLight, p.Theme(ctx))
}

func TestThemeIgnoresBadRecords(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ThemeKey, "neon"))
	p := New(kv, nil)
	assert.Equal(t, ThemeSystem, p.Theme(ctx))

	kv.ReadErr = errors.New("locked")
	assert.Equal(t, ThemeSystem, p.Theme(ctx))
}

func TestSetThemeWriteFailure(t *testing.T) {
	kv := store.NewMemoryKV()
	kv.WriteErr = errors.New("read-only")
	err := New(kv, nil).SetTheme(context.Background(), ThemeDark)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownTheme)
}

func TestNextTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, NextTheme(ThemeSystem))
	assert.Equal(t, ThemeLight, NextTheme(ThemeDark))
	assert.Equal(t, ThemeSystem, NextTheme(ThemeLight))
	assert.Equal(t, ThemeSystem, NextTheme("bogus"))
}
