// Package visualization exports simulator results as image and CSV
// artifacts: the aerial image and thresholded resist pattern as
// grayscale PNGs, the cross-section profile and Bossung table as CSV.
package visualization

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/draw"

	"lithosim/internal/models"
)

// Viewer renders one aerial image together with its view settings.
type Viewer struct {
	// intensity is the normalized aerial image, row-major.
	intensity []float64

	// view carries the resist threshold and cross-section row.
	view models.ViewParams
}

// NewViewer creates a viewer over a normalized intensity image.
func NewViewer(intensity []float64, view models.ViewParams) *Viewer {
	return &Viewer{
		intensity: intensity,
		view:      view,
	}
}

// AerialImage renders the intensity as a 16-bit grayscale image.
func (v *Viewer) AerialImage() image.Image {
	n := models.GridSize
	img := image.NewGray16(image.Rect(0, 0, n, n))

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			value := v.intensity[y*n+x]
			if value < 0 {
				value = 0
			} else if value > 1 {
				value = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(value * 65535)})
		}
	}

	return img
}

// ResistImage renders the binary resist pattern: white where the
// intensity reaches the view threshold.
func (v *Viewer) ResistImage() image.Image {
	n := models.GridSize
	img := image.NewGray(image.Rect(0, 0, n, n))

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if v.intensity[y*n+x] >= v.view.Threshold {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return img
}

// CrossSection returns the intensity profile along the configured row.
func (v *Viewer) CrossSection() []float64 {
	n := models.GridSize
	row := v.view.CrossSectionRow
	if row < 0 {
		row = 0
	} else if row >= n {
		row = n - 1
	}

	profile := make([]float64, n)
	copy(profile, v.intensity[row*n:row*n+n])
	return profile
}

// SaveImage writes an image to disk as PNG, creating the directory if
// needed.
func SaveImage(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating image file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveImageScaled writes the image upscaled by an integer zoom factor
// using nearest-neighbor resampling, keeping pixel boundaries crisp.
func SaveImageScaled(img image.Image, path string, zoom int) error {
	if zoom <= 1 {
		return SaveImage(img, path)
	}

	bounds := img.Bounds()
	scaled := image.NewGray16(image.Rect(0, 0, bounds.Dx()*zoom, bounds.Dy()*zoom))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	return SaveImage(scaled, path)
}

// SaveCrossSectionCSV writes the cross-section profile as
// (position_nm, intensity) rows.
func (v *Viewer) SaveCrossSectionCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"position_nm", "intensity"}); err != nil {
		return err
	}
	for i, value := range v.CrossSection() {
		record := []string{
			strconv.FormatFloat(float64(i)*models.PixelSizeNm, 'f', 5, 64),
			strconv.FormatFloat(value, 'g', 10, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

// SaveBossungCSV writes the sweep result as one row per focus value
// with one CD column per dose.
func SaveBossungCSV(result *models.BossungResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := make([]string, 0, len(result.DoseValues)+1)
	header = append(header, "focus_um")
	for _, dose := range result.DoseValues {
		header = append(header, fmt.Sprintf("cd_nm_dose_%.3f", dose))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for f, focus := range result.FocusValues {
		record := make([]string, 0, len(result.Curves)+1)
		record = append(record, strconv.FormatFloat(focus, 'f', 4, 64))
		for _, curve := range result.Curves {
			record = append(record, strconv.FormatFloat(curve.Points[f].CDNm, 'f', 3, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}
