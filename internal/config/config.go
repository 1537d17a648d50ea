package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds asset locations and export settings.
type Config struct {
	// Assets
	SharedDir string `json:"shared_dir"` // Fallback directory for referenced files
	DiscImage string `json:"disc_image"` // ISO9660 image to read assets from

	// Meshes
	UseUVFiles *bool `json:"use_uv_files"` // Apply <mesh>.uv when present

	// Texture export
	TextureScale float64 `json:"texture_scale"`
	ExportFormat string  `json:"export_format"`
}

// Defaults for fields left unset.
const (
	DefaultTextureScale = 1.0
	DefaultExportFormat = "png"
)

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides, then fills defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.SharedDir != "" {
		c.SharedDir = flags.SharedDir
	}
	if flags.DiscImage != "" {
		c.DiscImage = flags.DiscImage
	}
	if flags.NoUV {
		off := false
		c.UseUVFiles = &off
	}
	if flags.Scale > 0 {
		c.TextureScale = flags.Scale
	}
	if flags.Format != "" {
		c.ExportFormat = flags.Format
	}

	if c.UseUVFiles == nil {
		on := true
		c.UseUVFiles = &on
	}
	if c.TextureScale <= 0 {
		c.TextureScale = DefaultTextureScale
	}
	if c.ExportFormat == "" {
		c.ExportFormat = DefaultExportFormat
	}
}

// UVFiles reports whether UV files should be applied.
func (c *Config) UVFiles() bool {
	return c.UseUVFiles == nil || *c.UseUVFiles
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SharedDir string
	DiscImage string
	NoUV      bool
	Scale     float64
	Format    string
}
