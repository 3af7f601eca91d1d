package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/domain"
)

// JPEG cannot encode taller images
const maxRasterHeight = 65000

// smallest scale a long report is shrunk to before it is rejected
const minRasterScale = 0.05

var ErrReleased = errors.New("render surface already released")

var _ secondary.RenderSurface = (*Surface)(nil)

type faceKey struct {
	bold  bool
	size  float64
	scale float64
}

// Surface lays reports out at a fixed width. The pixel buffer and font faces are
// kept between renders and dropped on Release.
type Surface struct {
	mu       sync.Mutex
	fonts    fontSet
	width    float64
	scale    float64
	quality  int
	faces    map[faceKey]font.Face
	pix      []byte
	released bool
}

func (s *Surface) face(bold bool, size, scale float64) (font.Face, error) {
	key := faceKey{bold: bold, size: size, scale: scale}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	src := s.fonts.regular
	if bold {
		src = s.fonts.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	s.faces[key] = f
	return f, nil
}

func (s *Surface) Render(ctx context.Context, view domain.ReportView) (*domain.Raster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrReleased
	}

	// measure pass
	c := &canvas{surface: s, scale: s.scale}
	height, err := layoutReport(c, view)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// reports too tall for the configured scale are drawn smaller
	if height*c.scale > maxRasterHeight {
		scale := math.Floor(maxRasterHeight/height*100) / 100
		if scale < minRasterScale {
			return nil, fmt.Errorf("report for %s is too long to rasterize (%.0f layout px)", view.FileName, height)
		}
		c = &canvas{surface: s, scale: scale}
		if height, err = layoutReport(c, view); err != nil {
			return nil, err
		}
	}

	w := int(math.Ceil(s.width * c.scale))
	h := int(math.Ceil(height * c.scale))
	if h > maxRasterHeight {
		return nil, fmt.Errorf("report for %s is too long to rasterize (%d px)", view.FileName, h)
	}

	c.img = s.blank(w, h)
	if _, err := layoutReport(c, view); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, c.img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &domain.Raster{Format: "JPEG", Width: w, Height: h, Data: buf.Bytes()}, nil
}

// blank returns a white image backed by the surface's pixel buffer
func (s *Surface) blank(w, h int) *image.RGBA {
	n := 4 * w * h
	if cap(s.pix) < n {
		s.pix = make([]byte, n)
	}
	img := &image.RGBA{Pix: s.pix[:n], Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func (s *Surface) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true
	s.pix = nil

	var errs []error
	for key, f := range s.faces {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(s.faces, key)
	}
	return errors.Join(errs...)
}
