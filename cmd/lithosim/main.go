package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"lithosim/internal/models"
	"lithosim/pkg/config"
	"lithosim/pkg/mask"
	"lithosim/pkg/metrology"
	"lithosim/pkg/pipeline"
	"lithosim/pkg/visualization"
)

func main() {
	// Parse command line arguments
	preset := flag.String("mask", "isolated_line", "Mask preset: blank, impulse, isolated_line, line_space, contacts")
	maskFile := flag.String("mask-file", "", "Load the mask from a 256x256 PNG instead of a preset")
	maskThreshold := flag.Float64("mask-threshold", 0.5, "Binarization threshold for -mask-file")
	configPath := flag.String("config", "lithosim.yaml", "YAML configuration file")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	runSweep := flag.Bool("bossung", false, "Run the Bossung focus/dose sweep")
	outputDir := flag.String("output", "", "Output directory (overrides the config)")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	params, err := cfg.PupilParams()
	if err != nil {
		log.Fatalf("Invalid optics configuration: %v", err)
	}
	view := models.ViewParams{
		Threshold:       cfg.View.Threshold,
		CrossSectionRow: cfg.View.CrossSectionRow,
	}

	fmt.Println("================================")
	fmt.Println("LITHOSIM - PARTIALLY COHERENT AERIAL IMAGE SIMULATOR")
	fmt.Printf("N=%d grid, %.5f nm/pixel, %.1f um field of view\n",
		models.GridSize, models.PixelSizeNm,
		models.GridSize*models.PixelSizeNm/1000)
	fmt.Println("================================")

	// Step 1: Build the mask
	fmt.Println("Step 1: Building mask...")
	var m models.Mask
	if *maskFile != "" {
		m, err = mask.Load(*maskFile, *maskThreshold)
		if err != nil {
			log.Fatalf("Failed to load mask: %v", err)
		}
		fmt.Printf("Loaded mask from %s\n", *maskFile)
	} else {
		m, err = mask.Preset(*preset)
		if err != nil {
			log.Fatalf("Failed to build mask: %v", err)
		}
		fmt.Printf("Using preset %q\n", *preset)
	}

	// Step 2: Compute the aerial image
	fmt.Println("Step 2: Computing aerial image...")
	fmt.Printf("Optics: lambda=%.0fnm NA=%.2f sigma=%.2f defocus=%.2fum\n",
		params.WavelengthNm, params.NA, params.Sigma, params.DefocusUm)

	result := pipeline.New().Run(m, params)
	fmt.Printf("Aerial image computed in %.2f ms\n", result.TimeMs)

	// Step 3: Export artifacts
	fmt.Println("Step 3: Exporting results...")
	viewer := visualization.NewViewer(result.Intensity, view)

	exports := []struct {
		name string
		err  error
	}{
		{"mask.png", mask.Save(m, filepath.Join(cfg.Output.Dir, "mask.png"))},
		{"aerial.png", visualization.SaveImageScaled(viewer.AerialImage(),
			filepath.Join(cfg.Output.Dir, "aerial.png"), cfg.Output.Zoom)},
		{"resist.png", visualization.SaveImage(viewer.ResistImage(),
			filepath.Join(cfg.Output.Dir, "resist.png"))},
		{"cross_section.csv", viewer.SaveCrossSectionCSV(
			filepath.Join(cfg.Output.Dir, "cross_section.csv"))},
	}
	for _, export := range exports {
		if export.err != nil {
			log.Fatalf("Failed to export %s: %v", export.name, export.err)
		}
	}

	// Report cross-section metrics
	metrics := metrology.MeasureRow(result.Intensity, view.CrossSectionRow)
	cd := metrology.MeasureCD(result.Intensity, 1.0)

	fmt.Printf("\nCross-section metrics (row %d):\n", view.CrossSectionRow)
	fmt.Printf("=======================================\n")
	fmt.Printf("Peak intensity: %.4f\n", metrics.Max)
	fmt.Printf("Contrast: %.4f\n", metrics.Contrast)
	fmt.Printf("Max edge slope: %.6f /nm\n", metrics.EdgeSlope)
	fmt.Printf("CD at nominal dose: %.2f nm\n", cd)

	// Step 4: Optional Bossung sweep
	if *runSweep {
		fmt.Println("\nStep 4: Running Bossung sweep...")
		sweepParams := cfg.BossungParams()

		var sweepResult *models.BossungResult
		if cfg.Processing.NumCores > 1 {
			fmt.Printf("Sweeping %d focus x %d dose samples on %d cores...\n",
				sweepParams.FocusSteps, sweepParams.DoseSteps, cfg.Processing.NumCores)
			sweepResult = metrology.RunSweepParallel(m, params, sweepParams, cfg.Processing.NumCores)
		} else {
			sweepResult = metrology.RunSweep(m, params, sweepParams, cfg.Processing.Verbose)
		}

		csvPath := filepath.Join(cfg.Output.Dir, "bossung.csv")
		if err := visualization.SaveBossungCSV(sweepResult, csvPath); err != nil {
			log.Fatalf("Failed to export Bossung table: %v", err)
		}

		fmt.Printf("Sweep completed in %.2f ms with %d pipeline runs\n",
			sweepResult.TimeMs, sweepResult.PipelineRuns)
		fmt.Printf("Bossung table saved to: %s\n", csvPath)
	}

	fmt.Printf("\nResults saved to: %s\n", cfg.Output.Dir)
}
