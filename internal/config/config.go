package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"scene-importer/internal/importer"
)

// Config holds the import and export settings shared by the command line tools.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir" yaml:"input_dir" toml:"input_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`

	// Import settings
	Scale         Scale  `json:"scale" yaml:"scale" toml:"scale"`
	Handedness    string `json:"handedness" yaml:"handedness" toml:"handedness"`
	KeepNodeScale bool   `json:"keep_node_scale" yaml:"keep_node_scale" toml:"keep_node_scale"`

	// Texture export settings
	ExportTextures bool `json:"export_textures" yaml:"export_textures" toml:"export_textures"`
	MaxTextureSize int  `json:"max_texture_size" yaml:"max_texture_size" toml:"max_texture_size"`

	Workers int `json:"workers" yaml:"workers" toml:"workers"`
}

// Scale is the per-axis factor applied to every imported mesh part.
// A zero component means "not set".
type Scale struct {
	X float32 `json:"x" yaml:"x" toml:"x"`
	Y float32 `json:"y" yaml:"y" toml:"y"`
	Z float32 `json:"z" yaml:"z" toml:"z"`
}

// Load reads a config file. The format follows the extension: .json, .yaml,
// .yml or .toml. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Scale > 0 {
		s := float32(flags.Scale)
		c.Scale = Scale{s, s, s}
	}
	if flags.Handedness != "" {
		c.Handedness = flags.Handedness
	}
	if flags.KeepNodeScale {
		c.KeepNodeScale = true
	}
	if flags.ExportTextures {
		c.ExportTextures = true
	}
	if flags.MaxTextureSize > 0 {
		c.MaxTextureSize = flags.MaxTextureSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.InputDir == "" {
		c.InputDir = "."
	}
	c.InputDir = expandHome(c.InputDir)
	c.OutputDir = expandHome(c.OutputDir)

	// Resolve relative output dir against the input dir
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "imported")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	if c.Scale.X == 0 {
		c.Scale.X = 1
	}
	if c.Scale.Y == 0 {
		c.Scale.Y = 1
	}
	if c.Scale.Z == 0 {
		c.Scale.Z = 1
	}
	if c.Handedness == "" {
		c.Handedness = importer.MirrorEulerY.String()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// expandHome resolves a leading "~"; paths it cannot expand are kept.
func expandHome(path string) string {
	if p, err := homedir.Expand(path); err == nil {
		return p
	}
	return path
}

// ImportOptions checks and converts the import settings. Scale components
// must not be negative.
func (c *Config) ImportOptions() (importer.Options, error) {
	if c.Scale.X < 0 || c.Scale.Y < 0 || c.Scale.Z < 0 {
		return importer.Options{}, fmt.Errorf("config: negative scale %v", c.Scale)
	}
	h, ok := importer.ParseHandedness(c.Handedness)
	if !ok {
		return importer.Options{}, fmt.Errorf("config: unknown handedness %q", c.Handedness)
	}
	return importer.Options{Handedness: h, KeepNodeScale: c.KeepNodeScale}, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir       string
	OutputDir      string
	Scale          float64
	Handedness     string
	KeepNodeScale  bool
	ExportTextures bool
	MaxTextureSize int
	Workers        int
}
