// Package pipeline chains the image-formation stages into a single
// run: mask -> forward FFT -> shift -> pupil filter -> shift -> inverse
// FFT -> intensity -> normalize. A Pipeline owns the complex scratch
// grid, so one instance supports exactly one run at a time.
package pipeline

import (
	"time"

	"lithosim/internal/models"
	"lithosim/pkg/fft"
	"lithosim/pkg/pupil"
)

// Result carries the output of one pipeline run.
type Result struct {
	// Intensity is the normalized aerial image, row-major, values in
	// [0, 1]. Freshly allocated on every run.
	Intensity []float64

	// TimeMs is the elapsed wall time of the run in milliseconds.
	TimeMs float64
}

// Pipeline holds the process-lifetime scratch buffer for the complex
// grid. The zero value is ready to use; the scratch is allocated
// lazily on the first run. A Pipeline must not be shared between
// concurrent runs.
type Pipeline struct {
	scratch []float64
}

// New returns a pipeline handle with an unallocated scratch grid.
func New() *Pipeline {
	return &Pipeline{}
}

// Run computes the aerial image for the given binary mask and optics.
// The mask must hold GridSize*GridSize values in {0, 1}.
//
// The returned intensity is normalized so its maximum is 1 whenever the
// mask is not entirely zero; a blank mask yields an all-zero image.
func (p *Pipeline) Run(mask models.Mask, params models.PupilParams) *Result {
	start := time.Now()

	n := models.GridSize
	if p.scratch == nil {
		p.scratch = make([]float64, 2*n*n)
	}
	buf := p.scratch

	// Load the mask as the real part of the complex grid.
	for i := 0; i < n*n; i++ {
		buf[2*i] = mask[i]
		buf[2*i+1] = 0
	}

	// Transform to the frequency domain and center DC for the pupil.
	fft.FFT2D(buf, n, false)
	fft.Shift(buf, n)

	pupil.Apply(buf, n, models.FreqSpacing, params)

	// Back to corner-DC layout, then to the image plane.
	fft.Shift(buf, n)
	fft.FFT2D(buf, n, true)

	// Detected intensity is the squared field magnitude.
	intensity := make([]float64, n*n)
	maxVal := 0.0
	for i := 0; i < n*n; i++ {
		v := buf[2*i]*buf[2*i] + buf[2*i+1]*buf[2*i+1]
		intensity[i] = v
		if v > maxVal {
			maxVal = v
		}
	}

	// Normalize to a unit peak. A blank mask has no energy anywhere;
	// leave it as zeros rather than divide by zero.
	// Division (not reciprocal multiply) so the peak lands on exactly 1.
	if maxVal > 0 {
		for i := range intensity {
			intensity[i] /= maxVal
		}
	}

	return &Result{
		Intensity: intensity,
		TimeMs:    float64(time.Since(start)) / float64(time.Millisecond),
	}
}
