package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/particles/internal/field"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Presets adjust the field parameters on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"original": func(*Config) {},
	"calm": func(c *Config) {
		c.Field.Count = 30
		c.Field.VelocityFactor = 0.2
		c.Field.ConnectionDist = 120
	},
	"dense": func(c *Config) {
		c.Field.Count = 120
		c.Field.ConnectionDist = 100
		c.Field.LineAlpha = 0.08
	},
	"swarm": func(c *Config) {
		c.Field.PointerRadius = 180
		c.Field.Pull = 0.03
		c.Field.VelocityFactor = 0.8
	},
	"daylight": func(c *Config) {
		c.Theme = field.ThemeLight
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil if
// no such preset exists.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply applies the named preset to cfg.
func Apply(cfg *Config, name string) error {
	apply, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	apply(cfg)
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
