package leaf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, c color.Color, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		label string
		conf  float64
	}{
		{"brown rust", color.RGBA{R: 160, G: 80, B: 40, A: 255}, LabelLeafRust, 0.62},
		{"pale dark", color.RGBA{R: 60, G: 70, B: 150, A: 255}, LabelNDeficiency, 0.58},
		{"green", color.RGBA{R: 60, G: 160, B: 60, A: 255}, LabelHealthy, 0.51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ClassifyBytes(solidPNG(t, tt.color, 32, 20))
			assert.Equal(t, tt.label, d.Label)
			assert.Equal(t, tt.conf, d.Confidence)
			assert.NotEmpty(t, d.Advice)
		})
	}
}

func TestClassify_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 200, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	assert.Equal(t, LabelHealthy, ClassifyBytes(buf.Bytes()).Label)
}

func TestClassify_InvalidImage(t *testing.T) {
	d := ClassifyBytes([]byte("not an image"))
	assert.Equal(t, LabelError, d.Label)
	assert.Zero(t, d.Confidence)
	assert.Contains(t, d.Advice, "leaf: decode image")
}

func TestMeanColor_LargeImageSampled(t *testing.T) {
	mean, err := MeanColor(bytes.NewReader(solidPNG(t, color.RGBA{R: 100, G: 50, B: 25, A: 255}, 600, 300)))
	require.NoError(t, err)
	assert.InDelta(t, 100, mean.R, 0.01)
	assert.InDelta(t, 50, mean.G, 0.01)
	assert.InDelta(t, 25, mean.B, 0.01)
}

func TestDiagnose_Boundaries(t *testing.T) {
	assert.Equal(t, LabelHealthy, Diagnose(RGB{R: 100, G: 100, B: 100}).Label)
	assert.Equal(t, LabelLeafRust, Diagnose(RGB{R: 121, G: 109, B: 109}).Label)
	assert.Equal(t, LabelNDeficiency, Diagnose(RGB{R: 89, G: 89, B: 255}).Label)
}
