package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particles/internal/field"
)

const (
	DefaultFPS        = 60
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
	DefaultAlphaGain  = 2.5
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultDataDir    = ".particles"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Theme    field.Theme    `yaml:"theme"`
	FPS      int            `yaml:"fps"`
	Seed     int64          `yaml:"seed"`
	LogFile  string         `yaml:"log_file"`
	Verbose  bool           `yaml:"verbose"`
	DataDir  string         `yaml:"data_dir"`
	Field    field.Config   `yaml:"field"`
	Terminal TerminalConfig `yaml:"terminal"`
	Window   WindowConfig   `yaml:"window"`
}

// TerminalConfig maps terminal cells to field pixels.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	AlphaGain  float64 `yaml:"alpha_gain"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:   field.ThemeDark,
		FPS:     DefaultFPS,
		DataDir: DefaultDataDir,
		Field:   field.DefaultConfig(),
		Terminal: TerminalConfig{
			CellWidth:  DefaultCellWidth,
			CellHeight: DefaultCellHeight,
			AlphaGain:  DefaultAlphaGain,
		},
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  "Antigravity",
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("%w: fps must be in [1, 240], got %d", ErrInvalidConfig, c.FPS)
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("%w: terminal cell size must be positive", ErrInvalidConfig)
	}
	if c.Terminal.AlphaGain <= 0 {
		return fmt.Errorf("%w: terminal alpha_gain must be positive", ErrInvalidConfig)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	}
	if err := c.Field.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// YAML returns the configuration as a YAML document.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
