// Package config loads and validates engine configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LayoutConfig configures the force-directed layout engine
type LayoutConfig struct {
	Iterations          int     `yaml:"iterations" validate:"gt=0"`
	RepulsionStrength   float64 `yaml:"repulsion_strength" validate:"gte=0"`
	SpringStrength      float64 `yaml:"spring_strength" validate:"gte=0"`
	DampingFactor       float64 `yaml:"damping_factor" validate:"gt=0,lt=1"`
	Spacing             float64 `yaml:"spacing" validate:"gt=0"`
	ClusterSeparation   float64 `yaml:"cluster_separation" validate:"gte=0"`
	TimeSpread          float64 `yaml:"time_spread" validate:"gte=0"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"gte=0,lte=1"`
	QuickLayout         bool    `yaml:"quick_layout"`
}

// CameraConfig configures automatic camera positioning
type CameraConfig struct {
	AutoEnabled         bool          `yaml:"auto_enabled"`
	TransitionDuration  time.Duration `yaml:"transition_duration" validate:"gt=0"`
	UserOverrideTimeout time.Duration `yaml:"user_override_timeout" validate:"gt=0"`
	AllowManualOverride bool          `yaml:"allow_manual_override"`
	PaddingFactor       float64       `yaml:"padding_factor" validate:"gte=1"`
	MinDistance         float64       `yaml:"min_distance" validate:"gt=0"`
	MaxDistance         float64       `yaml:"max_distance" validate:"gt=0,gtefield=MinDistance"`
	FieldOfView         float64       `yaml:"field_of_view" validate:"gt=0,lt=180"`
	PreventCloseUp      bool          `yaml:"prevent_close_up"`
	MaintainOrientation bool          `yaml:"maintain_orientation"`
}

// DispatchConfig configures the background computation dispatcher
type DispatchConfig struct {
	Workers        int           `yaml:"workers" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
}

// Config is the engine's root configuration
type Config struct {
	Layout   LayoutConfig   `yaml:"layout"`
	Camera   CameraConfig   `yaml:"camera"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	LogLevel string         `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the engineering-default configuration
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Iterations:          300,
			RepulsionStrength:   500,
			SpringStrength:      0.05,
			DampingFactor:       0.9,
			Spacing:             10,
			ClusterSeparation:   40,
			TimeSpread:          30,
			SimilarityThreshold: 0.5,
		},
		Camera: CameraConfig{
			AutoEnabled:         true,
			TransitionDuration:  1200 * time.Millisecond,
			UserOverrideTimeout: 8 * time.Second,
			AllowManualOverride: true,
			PaddingFactor:       1.4,
			MinDistance:         5,
			MaxDistance:         500,
			FieldOfView:         60,
			PreventCloseUp:      true,
			MaintainOrientation: false,
		},
		Dispatch: DispatchConfig{
			Workers:        2,
			RequestTimeout: 30 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file, fills unset fields from defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the defaults and validates
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints using struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
