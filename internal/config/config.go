// Package config provides viewer configuration: defaults, a JSON file, and
// environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"tree-heat/internal/heat"
	"tree-heat/internal/image"
	"tree-heat/pkg/geometry"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Mode selects what a primary-button press does to the candidate point.
type Mode string

const (
	ModePreview Mode = "preview" // Candidate is evaluated and discarded every frame
	ModeCommit  Mode = "commit"  // Candidate becomes a feature on button press
)

// Config is the viewer configuration (.json).
type Config struct {
	Title string `json:"title"`

	// Dataset paths (relative to the config file)
	FeaturesPath   string `json:"features"`
	FeaturesLayer  string `json:"layer,omitempty"`
	OutlinePath    string `json:"outline,omitempty"`
	BackgroundPath string `json:"background"`

	// BBox overrides the outline extent when set.
	BBox *geometry.BoundingBox `json:"bbox,omitempty"`

	BackgroundDecoder string `json:"background_decoder,omitempty"`

	// Output raster
	Width  int `json:"width"`
	Height int `json:"height"`

	// Heat rendering
	ClusterSize int     `json:"cluster_size"`
	Strategy    string  `json:"strategy"`
	Radius      float64 `json:"radius"`
	ValueRange  string  `json:"value_range,omitempty"`
	Markers     bool    `json:"markers"`

	// Interaction
	Mode           Mode `json:"mode"`
	LogScore       bool `json:"log_score"`
	IndexThreshold int  `json:"index_threshold"`
}

// Default returns the configuration for the Liebegg dataset.
func Default() *Config {
	return &Config{
		Title:          "Liebegg",
		FeaturesPath:   "data/SWISSTLM3D_2025.gpkg",
		FeaturesLayer:  "tlm_bb_einzelbaum_gebuesch",
		OutlinePath:    "data/outline_liebegg.shp",
		BackgroundPath: "data/background_liebegg.png",
		Width:          800,
		Height:         300,
		ClusterSize:    heat.DefaultClusterSize,
		Strategy:       heat.StrategyInverseDistance,
		Radius:         heat.DefaultRadius,
		ValueRange:     heat.RangeSaturate.String(),
		Mode:           ModePreview,
		LogScore:       true,
		IndexThreshold: 5000,
	}
}

// Load builds a configuration from defaults, the JSON file at path (if non-empty),
// a .env file and TREEHEAT_* environment variables, in that order, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.resolvePaths(filepath.Dir(path))
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Config: loaded .env")
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// resolvePaths makes relative dataset paths relative to dir.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.FeaturesPath, &c.OutlinePath, &c.BackgroundPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// applyEnv overlays TREEHEAT_* variables read through getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"TREEHEAT_FEATURES":           &c.FeaturesPath,
		"TREEHEAT_LAYER":              &c.FeaturesLayer,
		"TREEHEAT_OUTLINE":            &c.OutlinePath,
		"TREEHEAT_BACKGROUND":         &c.BackgroundPath,
		"TREEHEAT_BACKGROUND_DECODER": &c.BackgroundDecoder,
		"TREEHEAT_STRATEGY":           &c.Strategy,
		"TREEHEAT_VALUE_RANGE":        &c.ValueRange,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v := getenv("TREEHEAT_MODE"); v != "" {
		c.Mode = Mode(v)
	}

	ints := map[string]*int{
		"TREEHEAT_WIDTH":           &c.Width,
		"TREEHEAT_HEIGHT":          &c.Height,
		"TREEHEAT_CLUSTER_SIZE":    &c.ClusterSize,
		"TREEHEAT_INDEX_THRESHOLD": &c.IndexThreshold,
	}
	for key, dst := range ints {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
			}
			*dst = n
		}
	}

	if v := getenv("TREEHEAT_RADIUS"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: TREEHEAT_RADIUS=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Radius = r
	}

	bools := map[string]*bool{
		"TREEHEAT_MARKERS":   &c.Markers,
		"TREEHEAT_LOG_SCORE": &c.LogScore,
	}
	for key, dst := range bools {
		if v := getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
			}
			*dst = b
		}
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: raster size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.ClusterSize < 1 {
		return fmt.Errorf("%w: cluster_size %d", ErrInvalidConfig, c.ClusterSize)
	}
	if !(c.Radius > 0) {
		return fmt.Errorf("%w: radius %g", ErrInvalidConfig, c.Radius)
	}
	if c.Strategy != heat.StrategyInverseDistance && c.Strategy != heat.StrategyProximity {
		return fmt.Errorf("%w: strategy %q", ErrInvalidConfig, c.Strategy)
	}
	if _, err := heat.ParseValueRange(c.ValueRange); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := image.ParseDecoder(c.BackgroundDecoder); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Mode != ModePreview && c.Mode != ModeCommit {
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.FeaturesPath == "" || c.BackgroundPath == "" {
		return fmt.Errorf("%w: features and background paths are required", ErrInvalidConfig)
	}
	if c.OutlinePath == "" && c.BBox == nil {
		return fmt.Errorf("%w: either outline or bbox is required", ErrInvalidConfig)
	}
	if c.BBox != nil {
		if err := c.BBox.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
