package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"cabe", 100, 50, 150, 150, 100, 50},
		{"horizontal", 3000, 1500, 1920, 1080, 1920, 960},
		{"vertical", 1000, 2000, 150, 150, 75, 150},
		{"cuadrada", 600, 600, 300, 300, 300, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestProcess_PNGConservaFormato(t *testing.T) {
	p := NewProcessor()
	res, err := p.Process(pngBytes(t, 400, 200), ports.ImageOptions{MaxWidth: 1920, MaxHeight: 1080, ThumbnailSizes: []int{150, 300, 600}})
	require.NoError(t, err)

	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 200, res.Height)
	assert.Equal(t, "png", res.Format)
	assert.Nil(t, res.Optimized)

	require.Len(t, res.Thumbnails, 3)
	assert.Equal(t, 150, res.Thumbnails[150].Width)
	assert.Equal(t, 75, res.Thumbnails[150].Height)
	assert.Equal(t, "image/png", res.Thumbnails[150].MimeType)
	// 600 no amplía
	assert.Equal(t, 400, res.Thumbnails[600].Width)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(res.Thumbnails[300].Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 300, cfg.Width)
}

func TestProcess_JPEGGrandeGeneraOptimizada(t *testing.T) {
	p := NewProcessor()
	res, err := p.Process(jpegBytes(t, 2400, 1200), ports.ImageOptions{MaxWidth: 1920, MaxHeight: 1080})
	require.NoError(t, err)

	require.NotNil(t, res.Optimized)
	assert.Equal(t, 1920, res.Optimized.Width)
	assert.Equal(t, 960, res.Optimized.Height)
	assert.Equal(t, "jpg", res.Optimized.Ext)
	assert.Empty(t, res.Thumbnails)
}

func TestProcess_DatosInvalidos(t *testing.T) {
	_, err := NewProcessor().Process([]byte("no es una imagen"), ports.ImageOptions{})
	assert.Error(t, err)
}

func TestDimensions(t *testing.T) {
	w, h, err := NewProcessor().Dimensions(pngBytes(t, 32, 16))
	require.NoError(t, err)
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
}
