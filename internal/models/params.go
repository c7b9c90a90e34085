// Package models holds the shared data types of the lithography
// simulator: the photomask grid, the optical and view parameters, and
// the Bossung sweep request/result structures.
package models

// Grid constants shared by every stage of the simulator. The field of
// view is GridSize * PixelSizeNm ~= 5.0 um.
const (
	// GridSize is the width/height of every mask and image grid in
	// pixels. It must be a power of two for the FFT kernel.
	GridSize = 256

	// PixelSizeNm is the physical length represented by one grid sample.
	PixelSizeNm = 19.53125

	// FreqSpacing is the frequency-domain bin spacing in cycles/nm.
	FreqSpacing = 1.0 / (GridSize * PixelSizeNm)
)

// Mask is a binary photomask sampled on the GridSize x GridSize grid,
// stored row-major with values in {0, 1}.
type Mask []float64

// ZernikeCoeffs holds the aberration coefficients for Noll indices
// Z4..Z11, in units of waves.
type ZernikeCoeffs struct {
	Z4  float64 // defocus
	Z5  float64 // oblique astigmatism
	Z6  float64 // vertical astigmatism
	Z7  float64 // vertical coma
	Z8  float64 // horizontal coma
	Z9  float64 // spherical
	Z10 float64 // oblique trefoil
	Z11 float64 // vertical trefoil
}

// IsZero reports whether every coefficient is exactly zero, which lets
// the pupil filter skip the Zernike evaluation entirely.
func (z ZernikeCoeffs) IsZero() bool {
	return z == ZernikeCoeffs{}
}

// PupilParams describes the projection optics.
type PupilParams struct {
	// WavelengthNm is the exposure wavelength in nm (193..365).
	WavelengthNm float64

	// NA is the numerical aperture of the projection lens (0.1..1.4).
	NA float64

	// Sigma is the partial-coherence factor (0..1). It enlarges the
	// effective aperture radius by (1+Sigma).
	Sigma float64

	// DefocusUm is the offset from best focus in micrometers (-2..+2).
	DefocusUm float64

	// Zernike holds the wavefront aberration coefficients in waves.
	Zernike ZernikeCoeffs
}

// ViewParams holds the display-side state kept alongside the optics.
type ViewParams struct {
	// Threshold is the resist print threshold applied to the
	// normalized intensity when rendering the resist image (0..1).
	Threshold float64

	// CrossSectionRow selects the image row shown as a 1-D profile
	// (0..GridSize-1).
	CrossSectionRow int
}

// DefaultPupilParams returns the simulator's startup optics: a KrF
// stepper at moderate NA with no defocus and no aberrations.
func DefaultPupilParams() PupilParams {
	return PupilParams{
		WavelengthNm: 248,
		NA:           0.75,
		Sigma:        0.5,
	}
}

// DefaultViewParams returns the startup view state.
func DefaultViewParams() ViewParams {
	return ViewParams{
		Threshold:       0.3,
		CrossSectionRow: GridSize / 2,
	}
}

// BossungParams describes a focus x dose sweep request.
type BossungParams struct {
	// FocusMinUm and FocusMaxUm bound the focus axis in micrometers.
	FocusMinUm float64
	FocusMaxUm float64

	// FocusSteps is the number of focus samples (odd, >= 3; a value of
	// 1 collapses the axis to its midpoint).
	FocusSteps int

	// DoseMin and DoseMax bound the relative dose axis.
	DoseMin float64
	DoseMax float64

	// DoseSteps is the number of dose samples (>= 1).
	DoseSteps int
}

// DefaultBossungParams returns the sweep ranges used by the simulator
// when none are configured.
func DefaultBossungParams() BossungParams {
	return BossungParams{
		FocusMinUm: -1.0,
		FocusMaxUm: 1.0,
		FocusSteps: 11,
		DoseMin:    0.7,
		DoseMax:    1.3,
		DoseSteps:  7,
	}
}

// BossungPoint is one (focus, CD) sample on a Bossung curve.
type BossungPoint struct {
	// FocusUm is the defocus at which the CD was measured.
	FocusUm float64

	// CDNm is the measured critical dimension in nm (0 when nothing
	// printed).
	CDNm float64
}

// BossungCurve is the CD-vs-focus trace for a single dose.
type BossungCurve struct {
	// Dose is the relative dose this curve was measured at.
	Dose float64

	// Points holds one sample per focus value, in focus order.
	Points []BossungPoint
}

// BossungResult aggregates a completed sweep.
type BossungResult struct {
	// FocusValues and DoseValues are the sampled grid axes.
	FocusValues []float64
	DoseValues  []float64

	// Curves holds one curve per dose, in dose order.
	Curves []BossungCurve

	// TimeMs is the wall time spent on the sweep.
	TimeMs float64

	// PipelineRuns is the number of aerial-image computations the
	// sweep performed. It always equals len(FocusValues): dose is a
	// post-pipeline scalar, so one image serves every dose.
	PipelineRuns int
}
