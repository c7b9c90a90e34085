package metrology

import (
	"math"
	"testing"

	"lithosim/internal/models"
	"lithosim/pkg/mask"
	"lithosim/pkg/pipeline"
)

// TestSampleAxis verifies endpoint inclusion and the single-step
// midpoint collapse.
func TestSampleAxis(t *testing.T) {
	values := sampleAxis(-1, 1, 11)
	if len(values) != 11 {
		t.Fatalf("Expected 11 samples, got %d", len(values))
	}
	if values[0] != -1 || values[10] != 1 {
		t.Errorf("Expected endpoints -1 and 1, got %g and %g", values[0], values[10])
	}
	if math.Abs(values[5]) > 1e-12 {
		t.Errorf("Expected midpoint 0, got %g", values[5])
	}

	single := sampleAxis(0.4, 0.8, 1)
	if len(single) != 1 || math.Abs(single[0]-0.6) > 1e-12 {
		t.Errorf("Expected single midpoint sample 0.6, got %v", single)
	}
}

// TestSweepShape verifies the result dimensions, the per-curve focus
// alignment, and the pipeline-run count.
func TestSweepShape(t *testing.T) {
	sweep := models.BossungParams{
		FocusMinUm: -0.5, FocusMaxUm: 0.5, FocusSteps: 5,
		DoseMin: 0.8, DoseMax: 1.2, DoseSteps: 3,
	}

	result := RunSweep(mask.LineSpace(10, 5), models.DefaultPupilParams(), sweep, false)

	if len(result.FocusValues) != 5 || len(result.DoseValues) != 3 {
		t.Fatalf("Expected 5 focus and 3 dose samples, got %d and %d",
			len(result.FocusValues), len(result.DoseValues))
	}
	if len(result.Curves) != 3 {
		t.Fatalf("Expected 3 curves, got %d", len(result.Curves))
	}
	if result.PipelineRuns != 5 {
		t.Errorf("Expected exactly focusSteps=5 pipeline runs, got %d", result.PipelineRuns)
	}

	for d, curve := range result.Curves {
		if curve.Dose != result.DoseValues[d] {
			t.Errorf("Curve %d dose %g does not match dose value %g", d, curve.Dose, result.DoseValues[d])
		}
		if len(curve.Points) != 5 {
			t.Fatalf("Curve %d has %d points, want 5", d, len(curve.Points))
		}
		for f, point := range curve.Points {
			if point.FocusUm != result.FocusValues[f] {
				t.Errorf("Curve %d point %d focus %g does not match focus value %g",
					d, f, point.FocusUm, result.FocusValues[f])
			}
		}
	}
}

// TestSweepRunsIndependentOfDoses verifies that adding dose samples
// never adds pipeline runs.
func TestSweepRunsIndependentOfDoses(t *testing.T) {
	base := models.DefaultPupilParams()
	m := mask.LineSpace(10, 5)

	for _, doseSteps := range []int{1, 3, 9} {
		sweep := models.BossungParams{
			FocusMinUm: -0.2, FocusMaxUm: 0.2, FocusSteps: 3,
			DoseMin: 0.7, DoseMax: 1.3, DoseSteps: doseSteps,
		}
		result := RunSweep(m, base, sweep, false)
		if result.PipelineRuns != 3 {
			t.Errorf("doseSteps=%d: expected 3 pipeline runs, got %d", doseSteps, result.PipelineRuns)
		}
	}
}

// TestSweepDefocusSymmetry verifies that CD agrees at +f and -f on the
// line/space grating: the defocus phase is even in focus, so the two
// aerial images match.
func TestSweepDefocusSymmetry(t *testing.T) {
	sweep := models.BossungParams{
		FocusMinUm: -1, FocusMaxUm: 1, FocusSteps: 11,
		DoseMin: 1.0, DoseMax: 1.0, DoseSteps: 1,
	}

	result := RunSweep(mask.LineSpace(10, 5), models.DefaultPupilParams(), sweep, false)

	points := result.Curves[0].Points
	for f := 0; f < len(points)/2; f++ {
		mirror := len(points) - 1 - f
		diff := math.Abs(points[f].CDNm - points[mirror].CDNm)
		if diff > 2*models.PixelSizeNm {
			t.Errorf("CD at focus %g and %g differ by %g nm",
				points[f].FocusUm, points[mirror].FocusUm, diff)
		}
	}
}

// TestSweepParallelMatchesSerial verifies that the parallel sweep is a
// pure speedup: identical axes, curves, and run count.
func TestSweepParallelMatchesSerial(t *testing.T) {
	sweep := models.BossungParams{
		FocusMinUm: -0.8, FocusMaxUm: 0.8, FocusSteps: 7,
		DoseMin: 0.7, DoseMax: 1.3, DoseSteps: 5,
	}
	base := models.DefaultPupilParams()
	m := mask.LineSpace(10, 5)

	serial := RunSweep(m, base, sweep, false)
	parallel := RunSweepParallel(m, base, sweep, 4)

	if parallel.PipelineRuns != serial.PipelineRuns {
		t.Errorf("Run counts differ: serial %d, parallel %d", serial.PipelineRuns, parallel.PipelineRuns)
	}

	for d := range serial.Curves {
		for f := range serial.Curves[d].Points {
			s := serial.Curves[d].Points[f]
			p := parallel.Curves[d].Points[f]
			if s != p {
				t.Fatalf("Curve %d point %d differs: serial %+v, parallel %+v", d, f, s, p)
			}
		}
	}
}

// TestAberrationShiftsCD verifies that half a wave of spherical
// aberration moves the measured CD at some dose relative to the
// unaberrated baseline.
func TestAberrationShiftsCD(t *testing.T) {
	m := mask.IsolatedLine(6)

	base := models.DefaultPupilParams()
	baseImage := pipeline.New().Run(m, base)

	aberrated := base
	aberrated.Zernike.Z9 = 0.5
	aberrImage := pipeline.New().Run(m, aberrated)

	shifted := false
	for dose := 1.02; dose <= 1.5; dose += 0.04 {
		if MeasureCD(baseImage.Intensity, dose) != MeasureCD(aberrImage.Intensity, dose) {
			shifted = true
			break
		}
	}
	if !shifted {
		t.Errorf("Spherical aberration left the CD unchanged at every dose")
	}
}

// TestSweepBlankMask verifies that a blank mask sweeps to all-zero CD.
func TestSweepBlankMask(t *testing.T) {
	sweep := models.BossungParams{
		FocusMinUm: -0.5, FocusMaxUm: 0.5, FocusSteps: 3,
		DoseMin: 0.7, DoseMax: 1.3, DoseSteps: 3,
	}

	result := RunSweep(mask.Blank(), models.DefaultPupilParams(), sweep, false)
	for _, curve := range result.Curves {
		for _, point := range curve.Points {
			if point.CDNm != 0 {
				t.Fatalf("Blank mask printed CD %g at focus %g dose %g",
					point.CDNm, point.FocusUm, curve.Dose)
			}
		}
	}
}
