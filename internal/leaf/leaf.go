// Package leaf gives a coarse colour-based diagnosis of a leaf photo.
package leaf

import (
	"bytes"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Labels returned by Classify.
const (
	LabelLeafRust     = "suspected_leaf_rust"
	LabelNDeficiency  = "possible_n_deficiency"
	LabelHealthy      = "healthy_or_uncertain"
	LabelError        = "error"
	MaxImageBytes     = 10 << 20
	sampleGridMaxSide = 256
)

// Diagnosis is the classifier output.
type Diagnosis struct {
	Label      string  `json:"label" yaml:"label"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Advice     string  `json:"advice" yaml:"advice"`
}

// RGB is a mean colour in 0-255 channel units.
type RGB struct {
	R, G, B float64
}

// Classify decodes a PNG, JPEG or GIF image and labels it from its mean
// colour. Decode failures yield the error label with zero confidence.
func Classify(r io.Reader) Diagnosis {
	mean, err := MeanColor(r)
	if err != nil {
		zap.L().Debug("leaf: decode failed", zap.Error(err))
		return Diagnosis{Label: LabelError, Confidence: 0.0, Advice: err.Error()}
	}
	return Diagnose(mean)
}

// ClassifyBytes is Classify over an in-memory upload.
func ClassifyBytes(data []byte) Diagnosis {
	return Classify(bytes.NewReader(data))
}

// Diagnose applies the colour rules to a mean colour.
func Diagnose(c RGB) Diagnosis {
	brownish := c.R > 120 && c.G < 110 && c.B < 110
	pale := c.G < 90 && c.R < 90

	switch {
	case brownish:
		return Diagnosis{
			Label:      LabelLeafRust,
			Confidence: 0.62,
			Advice:     "Remove affected leaves, apply fungicide (mancozeb) if spreading.",
		}
	case pale:
		return Diagnosis{
			Label:      LabelNDeficiency,
			Confidence: 0.58,
			Advice:     "Consider split N application and soil test confirmation.",
		}
	default:
		return Diagnosis{
			Label:      LabelHealthy,
			Confidence: 0.51,
			Advice:     "Monitor regularly; upload clearer close-up for better detection.",
		}
	}
}

// MeanColor decodes an image and averages its colour over a grid of at
// most 256x256 sample points.
func MeanColor(r io.Reader) (RGB, error) {
	img, _, err := image.Decode(io.LimitReader(r, MaxImageBytes))
	if err != nil {
		return RGB{}, eris.Wrap(err, "leaf: decode image")
	}
	b := img.Bounds()
	if b.Empty() {
		return RGB{}, eris.New("leaf: empty image")
	}

	cols := min(b.Dx(), sampleGridMaxSide)
	rows := min(b.Dy(), sampleGridMaxSide)

	var sum RGB
	for j := 0; j < rows; j++ {
		y := b.Min.Y + j*b.Dy()/rows
		for i := 0; i < cols; i++ {
			x := b.Min.X + i*b.Dx()/cols
			cr, cg, cb, _ := img.At(x, y).RGBA()
			sum.R += float64(cr >> 8)
			sum.G += float64(cg >> 8)
			sum.B += float64(cb >> 8)
		}
	}
	n := float64(cols * rows)
	return RGB{R: sum.R / n, G: sum.G / n, B: sum.B / n}, nil
}
