package pdfdoc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/domain"
)

func jpegRaster(t *testing.T, w, h int) *domain.Raster {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return &domain.Raster{Format: "JPEG", Width: w, Height: h, Data: buf.Bytes()}
}

func TestDocument_A4InPoints(t *testing.T) {
	doc, err := NewAssembler("Grading Report", "AI Grader Pro").NewDocument()
	require.NoError(t, err)

	w, h := doc.PageSize()
	assert.InDelta(t, 595.28, w, 0.01)
	assert.InDelta(t, 841.89, h, 0.01)
}

func TestDocument_SlicesOneImageOverPages(t *testing.T) {
	doc, err := NewAssembler("", "").NewDocument()
	require.NoError(t, err)
	w, h := doc.PageSize()
	raster := jpegRaster(t, 64, 200)
	imageHeight := float64(raster.Height) * w / float64(raster.Width)

	for _, y := range []float64{0, -h} {
		doc.AddPage()
		require.NoError(t, doc.PlaceImage("report-0", raster, 0, y, w, imageHeight))
	}

	var out bytes.Buffer
	require.NoError(t, doc.Output(&out))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 2, doc.(*Document).PageCount())
	// the image is embedded once even though it is placed twice
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("/Subtype /Image")))
}

func TestDocument_UnsupportedFormat(t *testing.T) {
	doc, err := NewAssembler("", "").NewDocument()
	require.NoError(t, err)
	doc.AddPage()

	err = doc.PlaceImage("x", &domain.Raster{Format: "BMP", Width: 1, Height: 1}, 0, 0, 1, 1)
	assert.Error(t, err)
}

func TestDocument_CorruptImage(t *testing.T) {
	doc, err := NewAssembler("", "").NewDocument()
	require.NoError(t, err)
	doc.AddPage()

	err = doc.PlaceImage("bad", &domain.Raster{Format: "JPEG", Width: 1, Height: 1, Data: []byte("not a jpeg")}, 0, 0, 1, 1)
	assert.Error(t, err)
}
