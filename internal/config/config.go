package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Cues contains settings for cue construction from transcripts.
type Cues struct {
	// words per cue when word-level timing is available
	GroupSize int `toml:"group_size"`
}

// Raster contains settings for cue image rendering.
type Raster struct {
	WrapWidth    int    `toml:"wrap_width"`
	PointSize    int    `toml:"point_size"`
	StrokeWidth  int    `toml:"stroke_width"`
	BottomMargin int    `toml:"bottom_margin"`
	Font         string `toml:"font"`
}

// SRT contains settings for subtitle file output.
type SRT struct {
	Styled    bool   `toml:"styled"`
	FontSize  int    `toml:"font_size"`
	FontColor string `toml:"font_color"` // BGR hex, ASS override syntax
}

// Config is the full tool configuration.
type Config struct {
	Cues   Cues   `toml:"cues"`
	Raster Raster `toml:"raster"`
	SRT    SRT    `toml:"srt"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cues: Cues{
			GroupSize: 2,
		},
		Raster: Raster{
			WrapWidth:    30,
			PointSize:    48,
			StrokeWidth:  2,
			BottomMargin: 40,
		},
		SRT: SRT{
			Styled:    true,
			FontSize:  40,
			FontColor: "FFFF00",
		},
	}
}

// Load reads a TOML config file over the defaults. An empty path
// returns the defaults unchanged; a missing file is an error so typos
// surface instead of silently falling back.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Cues.GroupSize <= 0 {
		return fmt.Errorf("cues.group_size must be positive, got %d", c.Cues.GroupSize)
	}
	if c.Raster.WrapWidth <= 0 {
		return fmt.Errorf("raster.wrap_width must be positive, got %d", c.Raster.WrapWidth)
	}
	if c.Raster.PointSize <= 0 {
		return fmt.Errorf("raster.point_size must be positive, got %d", c.Raster.PointSize)
	}
	return nil
}
