package export

import (
	"context"

	"gitlab.com/gradepro.net/internal/domain"
)

type IExportService interface {
	// ExportSummary encodes every submission as one CSV file
	ExportSummary(ctx context.Context) (*domain.ExportFile, error)
	// ExportReport renders every COMPLETED submission into one paged PDF
	ExportReport(ctx context.Context) (*domain.ExportFile, error)
}
