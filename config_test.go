package lumen

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
title = "inventory"
screen_width = 1280
scale = 2.0
strict_anchors = true
log_level = "warn"
`))
	require.NoError(t, err)
	assert.Equal(t, "inventory", cfg.Title)
	assert.Equal(t, 1280, cfg.ScreenWidth)
	assert.Equal(t, 600, cfg.ScreenHeight, "unset keys keep defaults")
	assert.Equal(t, 2.0, cfg.Scale)
	assert.True(t, cfg.StrictAnchors)
	assert.Equal(t, DefaultMaxTargetSize, cfg.MaxTargetSize)
	assert.Equal(t, slog.LevelWarn, cfg.logLevel())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown key", `colour = "red"`},
		{"syntax", `scale = `},
		{"wrong type", `scale = "big"`},
		{"zero scale", `scale = 0.0`},
		{"negative size", `screen_width = -1`},
		{"bad level", `log_level = "loud"`},
		{"negative step", `scroll_step = -1.0`},
		{"zero target", `max_target_size = 0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigReportsPosition(t *testing.T) {
	_, err := LoadConfig([]byte("title = \"x\"\nscale = =\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "round trip"
	cfg.Debug = true
	data, err := cfg.Marshal()
	require.NoError(t, err)

	got, err := LoadConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`screen_height = 720`), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 720, cfg.ScreenHeight)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDebugForcesDebugLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "error"
	assert.Equal(t, slog.LevelError, cfg.logLevel())
	cfg.Debug = true
	assert.Equal(t, slog.LevelDebug, cfg.logLevel())
}

func TestNewUIClampsScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scale = 0
	ui := NewUI(cfg, WithLogger(NopLogger()))
	assert.Equal(t, 1.0, ui.Config().Scale)
}

func TestLoadConfigYAML(t *testing.T) {
	cfg, err := LoadConfigYAML([]byte("screen_width: 1024\nstrict_anchors: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.ScreenWidth)
	assert.True(t, cfg.StrictAnchors)
	assert.Equal(t, 1.0, cfg.Scale)

	_, err = LoadConfigYAML([]byte("colour: red\n"))
	assert.Error(t, err, "unknown keys are rejected")

	cfg, err = LoadConfigYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFileByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.yml")
	require.NoError(t, os.WriteFile(path, []byte("scroll_step: 40\n"), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.ScrollStep)
}
