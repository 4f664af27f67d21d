package lumen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultMaxTargetSize is the largest render target edge, in pixels, a
// scroll frame may allocate.
const DefaultMaxTargetSize = 4096

// Config holds the tunables of a UI. The zero value is not valid; start from
// DefaultConfig or LoadConfig.
type Config struct {
	// Title is the window title used by Run.
	Title string `toml:"title" yaml:"title"`
	// ScreenWidth and ScreenHeight are the logical screen size top-level
	// widgets anchor against.
	ScreenWidth  int `toml:"screen_width" yaml:"screen_width"`
	ScreenHeight int `toml:"screen_height" yaml:"screen_height"`
	// Scale is the number of physical pixels per logical unit. Bounds are
	// rounded to multiples of 1/Scale.
	Scale float64 `toml:"scale" yaml:"scale"`
	// StrictAnchors makes SetAnchor reject anchors that redefine an edge
	// another anchor already defines.
	StrictAnchors bool `toml:"strict_anchors" yaml:"strict_anchors"`
	// MaxTargetSize caps scroll frame render targets.
	MaxTargetSize int `toml:"max_target_size" yaml:"max_target_size"`
	// ScrollStep is the scroll distance of one mouse wheel notch.
	ScrollStep float64 `toml:"scroll_step" yaml:"scroll_step"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// Debug enables per-frame timing stats and tree sanity warnings.
	Debug bool `toml:"debug" yaml:"debug"`
}

// DefaultConfig returns a configuration for an 800x600 screen at scale 1.
func DefaultConfig() Config {
	return Config{
		Title:         "lumen",
		ScreenWidth:   800,
		ScreenHeight:  600,
		Scale:         1,
		MaxTargetSize: DefaultMaxTargetSize,
		ScrollStep:    20,
		LogLevel:      "info",
	}
}

// LoadConfig decodes TOML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigYAML is LoadConfig for YAML input.
func LoadConfigYAML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a config file. Files ending in .yaml or .yml are
// decoded as YAML, anything else as TOML.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadConfigYAML(data)
	}
	return LoadConfig(data)
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.ScreenWidth <= 0 || c.ScreenHeight <= 0:
		return fmt.Errorf("config: screen size %dx%d must be positive", c.ScreenWidth, c.ScreenHeight)
	case c.Scale <= 0:
		return fmt.Errorf("config: scale %g must be positive", c.Scale)
	case c.MaxTargetSize <= 0:
		return fmt.Errorf("config: max_target_size %d must be positive", c.MaxTargetSize)
	case c.ScrollStep < 0:
		return fmt.Errorf("config: scroll_step %g must not be negative", c.ScrollStep)
	}
	if _, ok := parseLogLevel(c.LogLevel); !ok {
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

func (c Config) logLevel() slog.Level {
	l, _ := parseLogLevel(c.LogLevel)
	if c.Debug && l > slog.LevelDebug {
		l = slog.LevelDebug
	}
	return l
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
