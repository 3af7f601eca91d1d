package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gitlab.com/gradepro.net/internal/config"
	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/domain"
)

const (
	StageSurface  = "surface"
	StageDocument = "document"
	StageRender   = "render"
	StagePlace    = "place"
	StageAssemble = "assemble"
)

// ReportExporter renders one visual report per submission and slices each onto pages
type ReportExporter struct {
	surfaces  secondary.SurfaceFactory
	assembler secondary.DocumentAssembler
	cfg       *config.ReportCfg
	logger    primary.Logger
}

func NewReportExporter(
	surfaces secondary.SurfaceFactory,
	assembler secondary.DocumentAssembler,
	cfg *config.ReportCfg,
	logger primary.Logger,
) *ReportExporter {
	return &ReportExporter{
		surfaces:  surfaces,
		assembler: assembler,
		cfg:       cfg,
		logger:    logger,
	}
}

// Export writes a document for subs in order and returns it with its page count.
// Every submission must be COMPLETED. On failure nothing is returned and the error is an *domain.ExportError.
func (e *ReportExporter) Export(ctx context.Context, subs []domain.Submission, gradedOn time.Time) ([]byte, int, error) {
	surface, err := e.surfaces.NewSurface(e.cfg.RenderWidthPx)
	if err != nil {
		return nil, 0, &domain.ExportError{Stage: StageSurface, Err: err}
	}
	defer func() {
		if err := surface.Release(); err != nil {
			e.logger.Warn("Releasing render surface failed", "error", err)
		}
	}()

	doc, err := e.assembler.NewDocument()
	if err != nil {
		return nil, 0, &domain.ExportError{Stage: StageDocument, Err: err}
	}
	pageWidth, pageHeight := doc.PageSize()

	for i, sub := range subs {
		if err := ctx.Err(); err != nil {
			return nil, 0, &domain.ExportError{Stage: StageRender, Err: err}
		}
		if sub.Status != domain.StatusCompleted || sub.Result == nil {
			return nil, 0, &domain.ExportError{Stage: StageRender, Err: fmt.Errorf("submission %s has no result", sub.FileName)}
		}

		raster, err := surface.Render(ctx, domain.ReportView{
			FileName: sub.FileName,
			GradedOn: gradedOn,
			Brand:    e.cfg.Brand,
			Result:   *sub.Result,
		})
		if err != nil {
			return nil, 0, &domain.ExportError{Stage: StageRender, Err: err}
		}
		if raster == nil || raster.Width <= 0 || raster.Height <= 0 {
			return nil, 0, &domain.ExportError{Stage: StageRender, Err: fmt.Errorf("empty raster for %s", sub.FileName)}
		}

		imageHeight := float64(raster.Height) * pageWidth / float64(raster.Width)
		name := fmt.Sprintf("report-%d", i)
		for _, y := range Paginate(imageHeight, pageHeight, e.cfg.SlackUnits) {
			doc.AddPage()
			if err := doc.PlaceImage(name, raster, 0, y, pageWidth, imageHeight); err != nil {
				return nil, 0, &domain.ExportError{Stage: StagePlace, Err: err}
			}
		}
		e.logger.Debug("Report rendered", "fileName", sub.FileName, "rasterHeight", raster.Height, "pages", doc.PageCount())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, &domain.ExportError{Stage: StageAssemble, Err: err}
	}
	return buf.Bytes(), doc.PageCount(), nil
}
