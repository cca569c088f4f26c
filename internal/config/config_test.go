package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cues.GroupSize != 2 {
		t.Errorf("expected group size 2, got %d", cfg.Cues.GroupSize)
	}
	if cfg.Raster.WrapWidth != 30 {
		t.Errorf("expected wrap width 30, got %d", cfg.Raster.WrapWidth)
	}
	if !cfg.SRT.Styled {
		t.Error("expected styled SRT by default")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cues.GroupSize != Default().Cues.GroupSize {
		t.Error("expected defaults for empty path")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	content := `[cues]
group_size = 3

[raster]
wrap_width = 42
font = "DejaVu-Sans"

[srt]
styled = false
`
	path := filepath.Join(t.TempDir(), "subburn.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cues.GroupSize != 3 {
		t.Errorf("expected group size 3, got %d", cfg.Cues.GroupSize)
	}
	if cfg.Raster.WrapWidth != 42 {
		t.Errorf("expected wrap width 42, got %d", cfg.Raster.WrapWidth)
	}
	if cfg.Raster.Font != "DejaVu-Sans" {
		t.Errorf("expected font override, got %q", cfg.Raster.Font)
	}
	if cfg.SRT.Styled {
		t.Error("expected styling disabled")
	}

	// untouched sections keep their defaults
	if cfg.Raster.PointSize != 48 {
		t.Errorf("expected default point size, got %d", cfg.Raster.PointSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero group size", "[cues]\ngroup_size = 0\n"},
		{"negative wrap width", "[raster]\nwrap_width = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
