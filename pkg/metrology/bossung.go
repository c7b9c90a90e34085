package metrology

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"lithosim/internal/models"
	"lithosim/pkg/pipeline"
)

// sampleAxis returns steps linearly spaced values over [min, max]; a
// single step collapses to the midpoint.
func sampleAxis(min, max float64, steps int) []float64 {
	if steps <= 1 {
		return []float64{(min + max) / 2}
	}
	return floats.Span(make([]float64, steps), min, max)
}

// RunSweep measures Bossung curves: CD versus focus, one curve per
// dose. Dose only scales the printed-pixel comparison, so each focus
// value needs a single aerial image regardless of how many doses are
// requested; the sweep performs exactly FocusSteps pipeline runs.
//
// When verbose is true, progress is reported per focus step.
func RunSweep(m models.Mask, base models.PupilParams, sweep models.BossungParams, verbose bool) *models.BossungResult {
	start := time.Now()

	focusValues := sampleAxis(sweep.FocusMinUm, sweep.FocusMaxUm, sweep.FocusSteps)
	doseValues := sampleAxis(sweep.DoseMin, sweep.DoseMax, sweep.DoseSteps)

	curves := make([]models.BossungCurve, len(doseValues))
	for d, dose := range doseValues {
		curves[d] = models.BossungCurve{
			Dose:   dose,
			Points: make([]models.BossungPoint, len(focusValues)),
		}
	}

	p := pipeline.New()
	for f, focus := range focusValues {
		params := base
		params.DefocusUm = focus
		result := p.Run(m, params)

		for d, dose := range doseValues {
			curves[d].Points[f] = models.BossungPoint{
				FocusUm: focus,
				CDNm:    MeasureCD(result.Intensity, dose),
			}
		}

		if verbose {
			fmt.Printf("   Bossung progress: %d/%d focus steps\n", f+1, len(focusValues))
		}
	}

	return &models.BossungResult{
		FocusValues:  focusValues,
		DoseValues:   doseValues,
		Curves:       curves,
		TimeMs:       float64(time.Since(start)) / float64(time.Millisecond),
		PipelineRuns: len(focusValues),
	}
}

// RunSweepParallel is RunSweep with the focus axis divided among
// numCores workers. Each worker owns a private pipeline handle, so no
// scratch grid is ever shared. The result is identical to the serial
// sweep, including point ordering and the pipeline-run count.
func RunSweepParallel(m models.Mask, base models.PupilParams, sweep models.BossungParams, numCores int) *models.BossungResult {
	start := time.Now()

	focusValues := sampleAxis(sweep.FocusMinUm, sweep.FocusMaxUm, sweep.FocusSteps)
	doseValues := sampleAxis(sweep.DoseMin, sweep.DoseMax, sweep.DoseSteps)

	curves := make([]models.BossungCurve, len(doseValues))
	for d, dose := range doseValues {
		curves[d] = models.BossungCurve{
			Dose:   dose,
			Points: make([]models.BossungPoint, len(focusValues)),
		}
	}

	if numCores < 1 {
		numCores = 1
	}

	// Divide the focus samples among the cores. Workers write disjoint
	// point slots, so no further synchronization is needed.
	var wg sync.WaitGroup
	stepsPerCore := (len(focusValues) + numCores - 1) / numCores

	for c := 0; c < numCores; c++ {
		wg.Add(1)

		go func(coreID int) {
			defer wg.Done()

			startStep := coreID * stepsPerCore
			endStep := (coreID + 1) * stepsPerCore
			if endStep > len(focusValues) {
				endStep = len(focusValues)
			}
			if startStep >= len(focusValues) {
				return
			}

			p := pipeline.New()
			for f := startStep; f < endStep; f++ {
				params := base
				params.DefocusUm = focusValues[f]
				result := p.Run(m, params)

				for d, dose := range doseValues {
					curves[d].Points[f] = models.BossungPoint{
						FocusUm: focusValues[f],
						CDNm:    MeasureCD(result.Intensity, dose),
					}
				}
			}
		}(c)
	}

	wg.Wait()

	return &models.BossungResult{
		FocusValues:  focusValues,
		DoseValues:   doseValues,
		Curves:       curves,
		TimeMs:       float64(time.Since(start)) / float64(time.Millisecond),
		PipelineRuns: len(focusValues),
	}
}
