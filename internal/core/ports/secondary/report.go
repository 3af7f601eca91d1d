package secondary

import (
	"context"
	"io"

	"gitlab.com/gradepro.net/internal/domain"
)

// SurfaceFactory creates hidden rendering surfaces of a fixed width
type SurfaceFactory interface {
	NewSurface(widthPx int) (RenderSurface, error)
}

// RenderSurface rasterizes report layouts. One surface is reused for every report of an export
// and must be released once the export ends.
type RenderSurface interface {
	// Render lays out the view at the surface width; the raster height follows the content.
	Render(ctx context.Context, view domain.ReportView) (*domain.Raster, error)
	Release() error
}

// DocumentAssembler creates paged output documents
type DocumentAssembler interface {
	NewDocument() (PagedDocument, error)
}

// PagedDocument collects images on fixed-size pages
type PagedDocument interface {
	// PageSize returns the width and height of a page in layout units
	PageSize() (float64, float64)
	AddPage()
	// PlaceImage draws raster on the current page. name identifies the raster so
	// the same image placed on several pages is embedded once.
	PlaceImage(name string, raster *domain.Raster, x, y, w, h float64) error
	// PageCount is the number of pages added so far
	PageCount() int
	Output(w io.Writer) error
}
