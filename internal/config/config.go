package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mdivjak/markit"
)

// Config holds all CLI configuration
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Output    OutputConfig    `yaml:"output"`
}

type DetectionConfig struct {
	Threshold      float64       `yaml:"threshold"`
	MinSceneLength uint32        `yaml:"min_scene_length"`
	Mode           string        `yaml:"mode"`
	LumaOnly       bool          `yaml:"luma_only"`
	Weights        WeightsConfig `yaml:"weights"`
}

type WeightsConfig struct {
	Hue   float64 `yaml:"hue"`
	Sat   float64 `yaml:"sat"`
	Lum   float64 `yaml:"lum"`
	Edges float64 `yaml:"edges"`
}

type OutputConfig struct {
	Format     string `yaml:"format"`
	Verbose    bool   `yaml:"verbose"`
	NoProgress bool   `yaml:"no_progress"`
}

// Load reads configuration from file or returns defaults. A missing
// file is only tolerated on the discovery path; a path the user named
// must exist.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DetectorConfig converts the detection section into a detector
// configuration, validating the mode name. LumaOnly takes precedence over
// explicit weights.
func (c *Config) DetectorConfig() (markit.DetectorConfig, error) {
	mode, err := markit.ParseFilterMode(c.Detection.Mode)
	if err != nil {
		return markit.DetectorConfig{}, err
	}

	weights := markit.ComponentWeights{
		DeltaHue:   c.Detection.Weights.Hue,
		DeltaSat:   c.Detection.Weights.Sat,
		DeltaLum:   c.Detection.Weights.Lum,
		DeltaEdges: c.Detection.Weights.Edges,
	}
	if c.Detection.LumaOnly {
		weights = markit.LumaOnlyWeights()
	}

	return markit.DetectorConfig{
		Threshold:      c.Detection.Threshold,
		Weights:        weights,
		MinSceneLength: c.Detection.MinSceneLength,
		FilterMode:     mode,
	}, nil
}

func defaultConfig() *Config {
	defaults := markit.DefaultDetectorConfig()

	return &Config{
		Detection: DetectionConfig{
			Threshold:      defaults.Threshold,
			MinSceneLength: defaults.MinSceneLength,
			Mode:           defaults.FilterMode.String(),
			LumaOnly:       false,
			Weights: WeightsConfig{
				Hue:   defaults.Weights.DeltaHue,
				Sat:   defaults.Weights.DeltaSat,
				Lum:   defaults.Weights.DeltaLum,
				Edges: defaults.Weights.DeltaEdges,
			},
		},
		Output: OutputConfig{
			Format:     "simple",
			Verbose:    false,
			NoProgress: false,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./markit.yaml",
		"./markit.yml",
		filepath.Join(os.Getenv("HOME"), ".markit", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
