package metrology

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"lithosim/internal/models"
)

// ImageMetrics summarizes the quality of an aerial-image cross section.
type ImageMetrics struct {
	// Max and Min are the extreme intensities on the measured row.
	Max float64
	Min float64

	// Contrast is (Max-Min)/(Max+Min), the classic fringe visibility;
	// zero for a blank image.
	Contrast float64

	// Mean and StdDev describe the intensity distribution of the row.
	Mean   float64
	StdDev float64

	// EdgeSlope is the steepest intensity change between adjacent
	// pixels on the row, per nm. Steeper aerial images print with more
	// dose latitude.
	EdgeSlope float64
}

// MeasureRow computes quality metrics over one row of an intensity
// image.
func MeasureRow(intensity []float64, row int) ImageMetrics {
	n := models.GridSize
	line := intensity[row*n : row*n+n]

	maxVal := floats.Max(line)
	minVal := floats.Min(line)

	metrics := ImageMetrics{
		Max:  maxVal,
		Min:  minVal,
		Mean: stat.Mean(line, nil),
	}
	metrics.StdDev = math.Sqrt(stat.Variance(line, nil))

	if maxVal+minVal > 0 {
		metrics.Contrast = (maxVal - minVal) / (maxVal + minVal)
	}

	for i := 1; i < n; i++ {
		slope := math.Abs(line[i]-line[i-1]) / models.PixelSizeNm
		if slope > metrics.EdgeSlope {
			metrics.EdgeSlope = slope
		}
	}

	return metrics
}
