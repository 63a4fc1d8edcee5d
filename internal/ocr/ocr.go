// Package ocr reads printed text in survey photographs, such as room
// placards and equipment tags, to suggest annotation label content.
package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"surveymark/pkg/geometry"
)

// PlacardChars is the character set for placard and tag OCR. Lowercase is
// excluded to reduce confusion (0/O, 1/I) on stamped and engraved signs.
const PlacardChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-/. "

// Engine provides OCR functionality using Tesseract.
type Engine struct {
	client      *gosseract.Client
	placardMode bool
}

// NewEngine creates a new OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Room codes and asset tags are not dictionary words, so disable
	// dictionary-based correction.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")

	return &Engine{
		client:      client,
		placardMode: true,
	}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// SetPlacardMode enables or disables the restricted placard character set.
func (e *Engine) SetPlacardMode(enabled bool) {
	e.placardMode = enabled
}

// RecognizeRegion performs OCR on a region of a photo, given in pixel
// coordinates.
func (e *Engine) RecognizeRegion(img gocv.Mat, region geometry.Rect) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("empty image")
	}

	x, y := int(region.X), int(region.Y)
	w, h := int(region.Width), int(region.Height)
	imgH, imgW := img.Rows(), img.Cols()

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > imgW {
		w = imgW - x
	}
	if y+h > imgH {
		h = imgH - y
	}
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("invalid region bounds")
	}

	roi := img.Region(image.Rect(x, y, x+w, y+h))
	defer roi.Close()

	processed := preprocessForOCR(roi)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	// PSM 6 = assume a single uniform block of text
	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}

	if e.placardMode {
		if err := e.client.SetWhitelist(PlacardChars); err != nil {
			return "", fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	text = strings.TrimSpace(text)
	text = strings.Join(strings.Fields(text), " ")
	if e.placardMode {
		text = strings.ToUpper(text)
	}

	return text, nil
}

// preprocessForOCR upscales, equalizes and binarizes a region so Tesseract
// sees dark text on a light background.
func preprocessForOCR(region gocv.Mat) gocv.Mat {
	h, w := region.Rows(), region.Cols()

	var scaled gocv.Mat
	minDim := h
	if w < minDim {
		minDim = w
	}
	if minDim < 150 {
		scale := 150.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{8, 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Invert light-on-dark signs so the text comes out dark.
	whiteCount := gocv.CountNonZero(binary)
	totalPixels := binary.Rows() * binary.Cols()
	if totalPixels > 0 && float64(whiteCount)/float64(totalPixels) > 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}
