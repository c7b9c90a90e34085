// Package metrology measures printed features on aerial images and
// drives the focus/dose (Bossung) sweep used for process-window
// analysis.
package metrology

import (
	"lithosim/internal/models"
)

// MeasureCD returns the critical dimension in nm of the widest printed
// feature on the center row of the intensity image. A pixel prints
// when intensity*dose >= 1.0; this threshold is fixed in CD units and
// deliberately independent of the resist view threshold. Ties between
// equally wide runs resolve to the run whose center is closest to the
// image center. Returns 0 when nothing prints.
func MeasureCD(intensity []float64, dose float64) float64 {
	n := models.GridSize
	row := intensity[(n/2)*n : (n/2)*n+n]

	bestLen := 0
	bestDist := 0 // twice the distance from run center to image center

	runStart := -1
	// Scan one past the last column so a run touching the edge
	// terminates against the virtual non-printed boundary.
	for i := 0; i <= n; i++ {
		printed := i < n && row[i]*dose >= 1.0

		if printed {
			if runStart < 0 {
				runStart = i
			}
			continue
		}

		if runStart >= 0 {
			length := i - runStart
			// Run center in half-pixel units, relative to column n/2.
			dist := abs(2*runStart + length - 1 - n)
			if length > bestLen || (length == bestLen && dist < bestDist) {
				bestLen = length
				bestDist = dist
			}
			runStart = -1
		}
	}

	return float64(bestLen) * models.PixelSizeNm
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
