// Package preferences stores user-level settings in the key-value store.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/store"
)

// ThemeKey is the global record holding the selected theme name.
const ThemeKey = "synapse-theme"

const (
	ThemeSystem = "system"
	ThemeDark   = "dark"
	ThemeLight  = "light"
)

// Themes lists accepted theme names in cycle order.
var Themes = []string{ThemeSystem, ThemeDark, ThemeLight}

var ErrUnknownTheme = errors.New("unknown theme")

// Preferences reads and writes settings.
type Preferences struct {
	kv  store.KV
	log *logger.Logger
}

func New(kv store.KV, log *logger.Logger) *Preferences {
	if log == nil {
		log = logger.NewNop()
	}
	return &Preferences{kv: kv, log: log}
}

// Theme returns the stored theme, or ThemeSystem when none is stored, the
// value is unknown, or storage cannot be read.
func (p *Preferences) Theme(ctx context.Context) string {
	v, ok, err := p.kv.Get(ctx, ThemeKey)
	if err != nil {
		p.log.Warn("read theme", "error", err)
		return ThemeSystem
	}
	if !ok || !slices.Contains(Themes, v) {
		return ThemeSystem
	}
	return v
}

// SetTheme persists name.
func (p *Preferences) SetTheme(ctx context.Context, name string) error {
	if !slices.Contains(Themes, name) {
		return fmt.Errorf("%w: %q (want one of %v)", ErrUnknownTheme, name, Themes)
	}
	if err := p.kv.Set(ctx, ThemeKey, name); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// NextTheme returns the theme after name in cycle order.
func NextTheme(name string) string {
	i := slices.Index(Themes, name)
	return Themes[(i+1)%len(Themes)]
}
