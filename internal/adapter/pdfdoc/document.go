package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/domain"
)

var (
	_ secondary.DocumentAssembler = (*Assembler)(nil)
	_ secondary.PagedDocument     = (*Document)(nil)
)

// Assembler creates portrait A4 documents measured in points
type Assembler struct {
	Title   string
	Creator string
}

func NewAssembler(title, creator string) *Assembler {
	return &Assembler{Title: title, Creator: creator}
}

func (a *Assembler) NewDocument() (secondary.PagedDocument, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if a.Title != "" {
		pdf.SetTitle(a.Title, true)
	}
	if a.Creator != "" {
		pdf.SetCreator(a.Creator, true)
	}
	if pdf.Err() {
		return nil, pdf.Error()
	}
	return &Document{pdf: pdf, registered: make(map[string]bool)}, nil
}

// Document wraps one fpdf document. Images are embedded once per name.
type Document struct {
	pdf        *fpdf.Fpdf
	registered map[string]bool
}

func (d *Document) PageSize() (float64, float64) {
	return d.pdf.GetPageSize()
}

func (d *Document) AddPage() {
	d.pdf.AddPage()
}

func imageType(format string) (string, error) {
	switch format {
	case "JPEG", "JPG":
		return "JPG", nil
	case "PNG":
		return "PNG", nil
	default:
		return "", fmt.Errorf("unsupported raster format %q", format)
	}
}

func (d *Document) PlaceImage(name string, raster *domain.Raster, x, y, w, h float64) error {
	kind, err := imageType(raster.Format)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: kind, ReadDpi: false, AllowNegativePosition: true}

	if !d.registered[name] {
		d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raster.Data))
		if d.pdf.Err() {
			return fmt.Errorf("register image %s: %w", name, d.pdf.Error())
		}
		d.registered[name] = true
	}

	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if d.pdf.Err() {
		return fmt.Errorf("place image %s: %w", name, d.pdf.Error())
	}
	return nil
}

func (d *Document) Output(w io.Writer) error {
	if d.pdf.Err() {
		return d.pdf.Error()
	}
	return d.pdf.Output(w)
}

// PageCount reports the number of pages added so far
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}
