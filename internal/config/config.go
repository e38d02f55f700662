// Package config provides file-based settings for the panel splitter.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"panel-splitter/internal/image"
	"panel-splitter/internal/panel"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const configFile = "config.json"

// Config holds every setting a run needs. Fields may be loaded from a JSON,
// TOML or YAML file and overridden by command-line flags.
type Config struct {
	// Segmentation
	Tolerance      uint32 `json:"tolerance" toml:"tolerance" yaml:"tolerance"`
	SeedX          int    `json:"seed_x" toml:"seed_x" yaml:"seed_x"`
	SeedY          int    `json:"seed_y" toml:"seed_y" yaml:"seed_y"`
	MaxLabels      int    `json:"max_labels" toml:"max_labels" yaml:"max_labels"`
	MaxFillQueue   int    `json:"max_fill_queue" toml:"max_fill_queue" yaml:"max_fill_queue"`
	MinPanelPixels int    `json:"min_panel_pixels" toml:"min_panel_pixels" yaml:"min_panel_pixels"`
	ReadingOrder   string `json:"reading_order" toml:"reading_order" yaml:"reading_order"`

	// Margin crop
	Crop          bool   `json:"crop" toml:"crop" yaml:"crop"`
	CropTolerance uint32 `json:"crop_tolerance" toml:"crop_tolerance" yaml:"crop_tolerance"`
	CropMargin    int    `json:"crop_margin" toml:"crop_margin" yaml:"crop_margin"`

	// Output
	OutputDir    string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	OutputFormat string `json:"output_format" toml:"output_format" yaml:"output_format"`
	Overlay      bool   `json:"overlay" toml:"overlay" yaml:"overlay"`

	// Batch
	Workers    int  `json:"workers" toml:"workers" yaml:"workers"`
	SkipErrors bool `json:"skip_errors" toml:"skip_errors" yaml:"skip_errors"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	p := panel.DefaultParams()
	return &Config{
		Tolerance:     p.Tolerance,
		SeedX:         p.Seed.X,
		SeedY:         p.Seed.Y,
		ReadingOrder:  p.Order.String(),
		Crop:          true,
		CropTolerance: p.Tolerance,
		OutputDir:     "panels",
		OutputFormat:  "png",
		Workers:       runtime.NumCPU(),
		SkipErrors:    true,
	}
}

// Validate clamps out-of-range limits and rejects unknown names and
// negative seed coordinates.
func (c *Config) Validate() error {
	if c.SeedX < 0 || c.SeedY < 0 {
		return fmt.Errorf("seed (%d,%d): %w", c.SeedX, c.SeedY, panel.ErrOutOfRange)
	}
	if c.MaxLabels < 0 {
		c.MaxLabels = 0
	}
	if c.MaxFillQueue < 0 {
		c.MaxFillQueue = 0
	}
	if c.MinPanelPixels < 0 {
		c.MinPanelPixels = 0
	}
	if c.CropMargin < 0 {
		c.CropMargin = 0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = "panels"
	}

	c.OutputFormat = strings.ToLower(strings.TrimPrefix(c.OutputFormat, "."))
	if c.OutputFormat == "" {
		c.OutputFormat = "png"
	}
	if !image.IsOutputFormat(c.OutputFormat) {
		return fmt.Errorf("unsupported output format %q", c.OutputFormat)
	}
	if _, err := panel.ParseReadingOrder(c.ReadingOrder); err != nil {
		return err
	}
	return nil
}

// Params converts the segmentation settings to engine parameters.
func (c *Config) Params() (panel.Params, error) {
	order, err := panel.ParseReadingOrder(c.ReadingOrder)
	if err != nil {
		return panel.Params{}, err
	}
	p := panel.DefaultParams().
		WithTolerance(c.Tolerance).
		WithSeed(c.SeedX, c.SeedY).
		WithOrder(order).
		WithLimits(c.MaxLabels, c.MaxFillQueue)
	p.MinPanelPixels = c.MinPanelPixels
	return p, nil
}

// DefaultPath returns ~/.config/panel-splitter/config.json (or the platform equivalent).
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "panel-splitter", configFile)
}

// Load reads configuration from path, picking the codec from the extension.
// A missing file yields DefaultConfig(). Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	switch ext(path) {
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Save writes the configuration to path in the format its extension names.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var data []byte
	var err error
	switch ext(path) {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
