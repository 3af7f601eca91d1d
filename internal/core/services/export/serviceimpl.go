package export

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/services/store"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

var _ IExportService = (*ExportService)(nil)

const (
	csvContentType = "text/csv; charset=utf-8"
	pdfContentType = "application/pdf"
)

type ExportService struct {
	store  store.ISubmissionStore
	report *ReportExporter
	logger primary.Logger
	now    func() time.Time
}

func NewExportService(submissions store.ISubmissionStore, report *ReportExporter, logger primary.Logger) *ExportService {
	return &ExportService{
		store:  submissions,
		report: report,
		logger: logger,
		now:    time.Now,
	}
}

func datestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (s *ExportService) ExportSummary(ctx context.Context) (*domain.ExportFile, error) {
	subs := s.store.List()
	if len(subs) == 0 {
		return nil, errs.NothingToExport
	}

	data, err := WriteSummary(subs)
	if err != nil {
		return nil, &domain.ExportError{Stage: "encode", Err: err}
	}
	s.logger.Info("Summary exported", "rows", len(subs))
	return &domain.ExportFile{
		Name:        fmt.Sprintf("grading_summary_%s.csv", datestamp(s.now())),
		ContentType: csvContentType,
		Data:        data,
	}, nil
}

func (s *ExportService) ExportReport(ctx context.Context) (*domain.ExportFile, error) {
	var completed []domain.Submission
	for _, sub := range s.store.List() {
		if sub.Status == domain.StatusCompleted && sub.Result != nil {
			completed = append(completed, sub)
		}
	}
	if len(completed) == 0 {
		return nil, errs.NothingToExport
	}

	now := s.now()
	data, pages, err := s.report.Export(ctx, completed, now)
	if err != nil {
		s.logger.Error("Report export failed", "submissions", len(completed), "error", err)
		return nil, err
	}
	s.logger.Info("Report exported", "submissions", len(completed), "pages", pages, "bytes", len(data))
	return &domain.ExportFile{
		Name:        fmt.Sprintf("Grading_Report_%s.pdf", datestamp(now)),
		ContentType: pdfContentType,
		Data:        data,
		Pages:       pages,
	}, nil
}
