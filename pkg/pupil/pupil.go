// Package pupil applies the projection-lens pupil function to a
// centered spectrum: a hard circular aperture cutoff, a quadratic
// defocus phase, and an optional Zernike aberration phase. The filter
// operates in place on the interleaved complex grid produced by the
// FFT after the quadrant swap, with DC at (n/2, n/2).
package pupil

import (
	"math"

	"lithosim/internal/models"
	"lithosim/pkg/zernike"
)

// Apply multiplies each in-aperture spectrum sample by the pupil phase
// and zeroes every sample beyond the effective cutoff
// f_c = NA*(1+sigma)/lambda. With zero defocus and zero Zernike
// coefficients, in-aperture samples pass through bit-exact.
//
// buf is the interleaved n x n complex spectrum with DC centered;
// freqSpacing is the frequency-domain bin spacing in cycles/nm.
func Apply(buf []float64, n int, freqSpacing float64, p models.PupilParams) {
	cutoff := p.NA * (1 + p.Sigma) / p.WavelengthNm
	cutoff2 := cutoff * cutoff

	// Defocus-to-phase coefficient, with defocus converted um -> nm.
	kDefocus := math.Pi * p.WavelengthNm * (p.DefocusUm * 1000)

	hasZernike := !p.Zernike.IsZero()
	half := n / 2

	for r := 0; r < n; r++ {
		fy := float64(r-half) * freqSpacing
		for c := 0; c < n; c++ {
			fx := float64(c-half) * freqSpacing
			f2 := fx*fx + fy*fy

			idx := 2 * (r*n + c)

			if f2 > cutoff2 {
				// Hard aperture: the lens cannot collect this order.
				buf[idx] = 0
				buf[idx+1] = 0
				continue
			}

			phase := kDefocus * f2
			if hasZernike {
				rho := math.Sqrt(f2) / cutoff
				theta := math.Atan2(fy, fx)
				phase += 2 * math.Pi * zernike.PhaseError(rho, theta, p.Zernike)
			}

			if phase != 0 {
				cos := math.Cos(phase)
				sin := math.Sin(phase)
				re := buf[idx]
				im := buf[idx+1]
				buf[idx] = re*cos - im*sin
				buf[idx+1] = re*sin + im*cos
			}
		}
	}
}
