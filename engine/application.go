package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-atlas/engine/assets/loaders"
	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/math"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-atlas/engine/systems"
)

const (
	DEFAULT_ATLAS_PATH    string = "images/tileset.png"
	DEFAULT_MANIFEST_PATH string = "files/tileset.txt"
)

type ApplicationConfig struct {
	// Root of the loose PNG tree.
	SourceDir string `toml:"source"`
	// Where the packed image is written.
	AtlasPath string `toml:"atlas"`
	// Where the text manifest is written.
	ManifestPath     string             `toml:"manifest"`
	MinAtlasWidth    int                `toml:"min_atlas_width"`
	MaxAtlasWidth    int                `toml:"max_atlas_width"`
	DefaultFramerate int                `toml:"default_framerate"`
	MetadataFilename string             `toml:"metadata_filename"`
	ResizeMode       loaders.ResizeMode `toml:"resize"`
	// Number of concurrent image decoders.
	Workers  int           `toml:"workers"`
	LogLevel core.LogLevel `toml:"log_level"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		AtlasPath:        DEFAULT_ATLAS_PATH,
		ManifestPath:     DEFAULT_MANIFEST_PATH,
		MinAtlasWidth:    systems.MIN_ATLAS_WIDTH,
		MaxAtlasWidth:    systems.MAX_ATLAS_WIDTH,
		DefaultFramerate: metadata.DEFAULT_FRAMERATE,
		MetadataFilename: metadata.DEFAULT_METADATA_FILENAME,
		ResizeMode:       loaders.ResizePad,
		Workers:          runtime.NumCPU(),
		LogLevel:         core.LogLevelInfo,
	}
}

// LoadApplicationConfig reads a TOML file on top of the defaults. Keys the
// config does not know are rejected.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s: %s", core.ErrInvalidConfig, path, strict.String())
		}
		return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("%w: no source directory", core.ErrInvalidConfig)
	}
	if c.AtlasPath == "" || c.ManifestPath == "" {
		return fmt.Errorf("%w: atlas and manifest paths are required", core.ErrInvalidConfig)
	}
	if !math.IsPowerOfTwo(c.MinAtlasWidth) || !math.IsPowerOfTwo(c.MaxAtlasWidth) {
		return fmt.Errorf("%w: atlas widths must be powers of two (min=%d, max=%d)", core.ErrInvalidConfig, c.MinAtlasWidth, c.MaxAtlasWidth)
	}
	if c.MinAtlasWidth > c.MaxAtlasWidth {
		return fmt.Errorf("%w: min atlas width %d exceeds max %d", core.ErrInvalidConfig, c.MinAtlasWidth, c.MaxAtlasWidth)
	}
	if c.DefaultFramerate <= 0 {
		return fmt.Errorf("%w: default framerate must be positive, got %d", core.ErrInvalidConfig, c.DefaultFramerate)
	}
	if c.MetadataFilename == "" {
		return fmt.Errorf("%w: metadata filename is empty", core.ErrInvalidConfig)
	}
	if _, err := loaders.ParseResizeMode(string(c.ResizeMode)); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", core.ErrInvalidConfig, c.Workers)
	}
	if _, err := core.ParseLogLevel(string(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	return nil
}
