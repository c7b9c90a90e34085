// Package mask builds and loads binary photomasks on the simulator
// grid. Presets cover the standard test structures (isolated line,
// line/space grating, contact array); arbitrary masks can be loaded
// from grayscale images with a binarization threshold.
package mask

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"lithosim/internal/models"
)

// Blank returns an all-zero mask (no features, nothing prints).
func Blank() models.Mask {
	return make(models.Mask, models.GridSize*models.GridSize)
}

// Impulse returns a mask with a single transparent pixel at the grid
// center.
func Impulse() models.Mask {
	m := Blank()
	n := models.GridSize
	m[(n/2)*n+n/2] = 1
	return m
}

// IsolatedLine returns a vertical line of the given width in pixels,
// centered on the grid. A width of 6 spans columns 125..130.
func IsolatedLine(widthPx int) models.Mask {
	m := Blank()
	n := models.GridSize
	start := (n - widthPx) / 2
	for r := 0; r < n; r++ {
		for c := start; c < start+widthPx; c++ {
			m[r*n+c] = 1
		}
	}
	return m
}

// LineSpace returns a vertical grating with the given pitch and line
// width in pixels: column c is transparent when c mod pitch < lineWidth.
func LineSpace(pitchPx, lineWidthPx int) models.Mask {
	m := Blank()
	n := models.GridSize
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if c%pitchPx < lineWidthPx {
				m[r*n+c] = 1
			}
		}
	}
	return m
}

// ContactArray returns a centered square array of square contact holes
// with the given hole size and pitch in pixels.
func ContactArray(holePx, pitchPx, count int) models.Mask {
	m := Blank()
	n := models.GridSize

	span := (count-1)*pitchPx + holePx
	origin := (n - span) / 2

	for hy := 0; hy < count; hy++ {
		for hx := 0; hx < count; hx++ {
			y0 := origin + hy*pitchPx
			x0 := origin + hx*pitchPx
			for r := y0; r < y0+holePx && r < n; r++ {
				for c := x0; c < x0+holePx && c < n; c++ {
					if r >= 0 && c >= 0 {
						m[r*n+c] = 1
					}
				}
			}
		}
	}
	return m
}

// Preset returns the named built-in mask, or an error listing the
// recognized names.
func Preset(name string) (models.Mask, error) {
	switch name {
	case "blank":
		return Blank(), nil
	case "impulse":
		return Impulse(), nil
	case "isolated_line":
		return IsolatedLine(6), nil
	case "line_space":
		return LineSpace(10, 5), nil
	case "contacts":
		return ContactArray(6, 16, 8), nil
	default:
		return nil, fmt.Errorf("unknown mask preset %q (want blank, impulse, isolated_line, line_space, or contacts)", name)
	}
}

// FromImage samples an image onto the simulator grid and binarizes it:
// pixels whose gray level is at least threshold (in [0,1]) become 1.
// The image must be exactly GridSize x GridSize.
func FromImage(img image.Image, threshold float64) (models.Mask, error) {
	bounds := img.Bounds()
	n := models.GridSize
	if bounds.Dx() != n || bounds.Dy() != n {
		return nil, fmt.Errorf("mask image must be %dx%d, got %dx%d", n, n, bounds.Dx(), bounds.Dy())
	}

	m := Blank()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Luminance in [0,1] from the 16-bit channels.
			gray := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
			if gray >= threshold {
				m[y*n+x] = 1
			}
		}
	}
	return m, nil
}

// Load reads a PNG mask image from disk and binarizes it.
func Load(path string, threshold float64) (models.Mask, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening mask file: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("error decoding mask image: %w", err)
	}

	return FromImage(img, threshold)
}

// Save writes the mask to disk as a black-and-white PNG.
func Save(m models.Mask, path string) error {
	n := models.GridSize
	img := image.NewGray(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if m[y*n+x] != 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating mask file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, img)
}
