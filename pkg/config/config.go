// Package config provides configuration loading and management for
// lithosim. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"lithosim/internal/models"
)

// Config represents the simulator configuration loaded from YAML
type Config struct {
	// Optical parameters of the projection system
	Optics struct {
		// Wavelength is the exposure wavelength in nm (193..365)
		Wavelength float64 `yaml:"wavelength"`

		// NA is the numerical aperture of the projection lens (0.1..1.4)
		NA float64 `yaml:"na"`

		// Sigma is the partial-coherence factor (0..1)
		Sigma float64 `yaml:"sigma"`

		// Defocus is the offset from best focus in micrometers (-2..+2)
		Defocus float64 `yaml:"defocus"`

		// Zernike holds the aberration coefficients in waves, keyed
		// z4..z11 in the Noll ordering
		Zernike map[string]float64 `yaml:"zernike"`
	} `yaml:"optics"`

	// View parameters for rendering
	View struct {
		// Threshold is the resist print threshold applied to the
		// normalized intensity (0..1)
		Threshold float64 `yaml:"threshold"`

		// CrossSectionRow selects the image row exported as a profile
		CrossSectionRow int `yaml:"crossSectionRow"`
	} `yaml:"view"`

	// Bossung sweep parameters
	Bossung struct {
		// FocusMin and FocusMax bound the focus axis in micrometers
		FocusMin float64 `yaml:"focusMin"`
		FocusMax float64 `yaml:"focusMax"`

		// FocusSteps is the number of focus samples (odd, 5..21)
		FocusSteps int `yaml:"focusSteps"`

		// DoseMin and DoseMax bound the relative dose axis (0.5..1.5)
		DoseMin float64 `yaml:"doseMin"`
		DoseMax float64 `yaml:"doseMax"`

		// DoseSteps is the number of dose samples (3..9)
		DoseSteps int `yaml:"doseSteps"`
	} `yaml:"bossung"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores the parallel sweep uses
		NumCores int `yaml:"numCores"`

		// Verbose controls the level of progress output
		Verbose bool `yaml:"verbose"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Dir is the directory where result artifacts are written
		Dir string `yaml:"dir"`

		// Zoom is the integer upscaling factor for exported images
		Zoom int `yaml:"zoom"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	optics := models.DefaultPupilParams()
	cfg.Optics.Wavelength = optics.WavelengthNm
	cfg.Optics.NA = optics.NA
	cfg.Optics.Sigma = optics.Sigma
	cfg.Optics.Defocus = optics.DefocusUm
	cfg.Optics.Zernike = map[string]float64{}

	view := models.DefaultViewParams()
	cfg.View.Threshold = view.Threshold
	cfg.View.CrossSectionRow = view.CrossSectionRow

	sweep := models.DefaultBossungParams()
	cfg.Bossung.FocusMin = sweep.FocusMinUm
	cfg.Bossung.FocusMax = sweep.FocusMaxUm
	cfg.Bossung.FocusSteps = sweep.FocusSteps
	cfg.Bossung.DoseMin = sweep.DoseMin
	cfg.Bossung.DoseMax = sweep.DoseMax
	cfg.Bossung.DoseSteps = sweep.DoseSteps

	cfg.Processing.NumCores = runtime.NumCPU()
	cfg.Processing.Verbose = true

	cfg.Output.Dir = "results"
	cfg.Output.Zoom = 1

	return cfg
}

// PupilParams converts the optics section to the simulator's
// parameter struct.
func (cfg *Config) PupilParams() (models.PupilParams, error) {
	params := models.PupilParams{
		WavelengthNm: cfg.Optics.Wavelength,
		NA:           cfg.Optics.NA,
		Sigma:        cfg.Optics.Sigma,
		DefocusUm:    cfg.Optics.Defocus,
	}

	for key, value := range cfg.Optics.Zernike {
		switch key {
		case "z4":
			params.Zernike.Z4 = value
		case "z5":
			params.Zernike.Z5 = value
		case "z6":
			params.Zernike.Z6 = value
		case "z7":
			params.Zernike.Z7 = value
		case "z8":
			params.Zernike.Z8 = value
		case "z9":
			params.Zernike.Z9 = value
		case "z10":
			params.Zernike.Z10 = value
		case "z11":
			params.Zernike.Z11 = value
		default:
			return params, fmt.Errorf("unknown Zernike key %q in config (want z4..z11)", key)
		}
	}

	return params, nil
}

// BossungParams converts the sweep section to the simulator's
// parameter struct.
func (cfg *Config) BossungParams() models.BossungParams {
	return models.BossungParams{
		FocusMinUm: cfg.Bossung.FocusMin,
		FocusMaxUm: cfg.Bossung.FocusMax,
		FocusSteps: cfg.Bossung.FocusSteps,
		DoseMin:    cfg.Bossung.DoseMin,
		DoseMax:    cfg.Bossung.DoseMax,
		DoseSteps:  cfg.Bossung.DoseSteps,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
