package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-atlas/engine/assets/loaders"
	"github.com/spaghettifunk/anima-atlas/engine/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadApplicationConfig(t *testing.T) {
	path := writeConfig(t, `
source = "assets"
atlas = "out/atlas.png"
max_atlas_width = 4096
default_framerate = 30
resize = "scale"
log_level = "debug"
`)

	cfg, err := LoadApplicationConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SourceDir != "assets" || cfg.AtlasPath != "out/atlas.png" {
		t.Errorf("paths = %q, %q", cfg.SourceDir, cfg.AtlasPath)
	}
	if cfg.MaxAtlasWidth != 4096 || cfg.DefaultFramerate != 30 {
		t.Errorf("max width = %d, framerate = %d", cfg.MaxAtlasWidth, cfg.DefaultFramerate)
	}
	if cfg.ResizeMode != loaders.ResizeScale || cfg.LogLevel != core.LogLevelDebug {
		t.Errorf("resize = %q, log level = %q", cfg.ResizeMode, cfg.LogLevel)
	}
	// keys left out keep their defaults
	if cfg.ManifestPath != DEFAULT_MANIFEST_PATH || cfg.MinAtlasWidth != 256 || cfg.MetadataFilename != "metadata.txt" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config is invalid: %v", err)
	}
}

func TestLoadApplicationConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "source = \"assets\"\npadding = 2\n"},
		{name: "wrong type", content: "workers = \"many\"\n"},
		{name: "broken syntax", content: "source = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadApplicationConfig(writeConfig(t, tt.content))
			if !errors.Is(err, core.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadApplicationConfig_Missing(t *testing.T) {
	_, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func TestApplicationConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *ApplicationConfig)
		valid  bool
	}{
		{name: "defaults with a source", modify: func(c *ApplicationConfig) {}, valid: true},
		{name: "no source", modify: func(c *ApplicationConfig) { c.SourceDir = "" }},
		{name: "no atlas path", modify: func(c *ApplicationConfig) { c.AtlasPath = "" }},
		{name: "min width not a power of two", modify: func(c *ApplicationConfig) { c.MinAtlasWidth = 300 }},
		{name: "min above max", modify: func(c *ApplicationConfig) { c.MinAtlasWidth, c.MaxAtlasWidth = 1024, 512 }},
		{name: "zero framerate", modify: func(c *ApplicationConfig) { c.DefaultFramerate = 0 }},
		{name: "empty metadata filename", modify: func(c *ApplicationConfig) { c.MetadataFilename = "" }},
		{name: "unknown resize mode", modify: func(c *ApplicationConfig) { c.ResizeMode = "stretch" }},
		{name: "no workers", modify: func(c *ApplicationConfig) { c.Workers = 0 }},
		{name: "unknown log level", modify: func(c *ApplicationConfig) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultApplicationConfig()
			cfg.SourceDir = "assets"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, core.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
