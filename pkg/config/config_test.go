package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies the documented simulator defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Optics.Wavelength != 248 || cfg.Optics.NA != 0.75 || cfg.Optics.Sigma != 0.5 {
		t.Errorf("Unexpected default optics: %+v", cfg.Optics)
	}
	if cfg.View.Threshold != 0.3 || cfg.View.CrossSectionRow != 128 {
		t.Errorf("Unexpected default view settings: %+v", cfg.View)
	}
	if cfg.Bossung.FocusSteps != 11 || cfg.Bossung.DoseSteps != 7 {
		t.Errorf("Unexpected default sweep: %+v", cfg.Bossung)
	}
	if cfg.Processing.NumCores < 1 {
		t.Errorf("Expected at least one core, got %d", cfg.Processing.NumCores)
	}
}

// TestLoadMissingFile verifies that a missing config file falls back to
// defaults without error.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/lithosim.yaml")
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got error: %v", err)
	}
	if cfg.Optics.Wavelength != 248 {
		t.Errorf("Expected default wavelength 248, got %g", cfg.Optics.Wavelength)
	}
}

// TestSaveLoadRoundTrip verifies YAML persistence.
func TestSaveLoadRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "lithosim-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	cfg := DefaultConfig()
	cfg.Optics.NA = 0.93
	cfg.Optics.Zernike["z9"] = 0.25
	cfg.Bossung.FocusSteps = 7

	path := filepath.Join(dir, "config.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Optics.NA != 0.93 {
		t.Errorf("NA not preserved: got %g", loaded.Optics.NA)
	}
	if loaded.Optics.Zernike["z9"] != 0.25 {
		t.Errorf("Zernike map not preserved: %+v", loaded.Optics.Zernike)
	}
	if loaded.Bossung.FocusSteps != 7 {
		t.Errorf("Sweep steps not preserved: got %d", loaded.Bossung.FocusSteps)
	}
}

// TestPupilParamsConversion verifies the optics section maps onto the
// simulator parameter struct, including the Zernike keys.
func TestPupilParamsConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optics.Defocus = -0.4
	cfg.Optics.Zernike["z5"] = 0.1
	cfg.Optics.Zernike["z11"] = -0.2

	params, err := cfg.PupilParams()
	if err != nil {
		t.Fatalf("PupilParams failed: %v", err)
	}

	if params.DefocusUm != -0.4 {
		t.Errorf("Defocus not converted: got %g", params.DefocusUm)
	}
	if params.Zernike.Z5 != 0.1 || params.Zernike.Z11 != -0.2 {
		t.Errorf("Zernike coefficients not converted: %+v", params.Zernike)
	}
}

// TestPupilParamsBadZernikeKey verifies rejection of unknown Noll keys.
func TestPupilParamsBadZernikeKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optics.Zernike["z3"] = 0.5

	if _, err := cfg.PupilParams(); err == nil {
		t.Errorf("Expected an error for Zernike key z3")
	}
}
