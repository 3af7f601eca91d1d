package raster

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"gitlab.com/gradepro.net/internal/config"
	"gitlab.com/gradepro.net/internal/core/ports/secondary"
)

var _ secondary.SurfaceFactory = (*Factory)(nil)

type fontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// Factory creates report surfaces backed by the Go font family
type Factory struct {
	fonts   fontSet
	scale   float64
	quality int
}

func NewFactory(cfg *config.ReportCfg) (*Factory, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	scale := cfg.RenderScale
	if scale <= 0 {
		scale = 1
	}
	quality := cfg.JpegQuality
	if quality < 1 || quality > 100 {
		quality = 95
	}
	return &Factory{
		fonts:   fontSet{regular: regular, bold: bold},
		scale:   scale,
		quality: quality,
	}, nil
}

func (f *Factory) NewSurface(widthPx int) (secondary.RenderSurface, error) {
	if widthPx <= 0 {
		return nil, fmt.Errorf("surface width must be positive, got %d", widthPx)
	}
	return &Surface{
		fonts:   f.fonts,
		width:   float64(widthPx),
		scale:   f.scale,
		quality: f.quality,
		faces:   make(map[faceKey]font.Face),
	}, nil
}
