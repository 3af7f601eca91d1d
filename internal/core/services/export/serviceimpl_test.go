package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/adapter/logging"
	"gitlab.com/gradepro.net/internal/core/services/store"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

func newExportService(t *testing.T) (*ExportService, *store.SubmissionStore, *fakeSurface) {
	t.Helper()
	logger := logging.NewNopLogger()
	st := store.NewSubmissionStore(logger)
	surface := &fakeSurface{heights: map[string]int{"a.txt": 400, "c.txt": 400}}
	exp, _ := newExporter(surface, &fakeDoc{})
	svc := NewExportService(st, exp, logger)
	svc.now = func() time.Time { return time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC) }
	return svc, st, surface
}

func TestExportService_NothingToExport(t *testing.T) {
	svc, st, _ := newExportService(t)

	_, err := svc.ExportSummary(context.Background())
	assert.ErrorIs(t, err, errs.NothingToExport)

	st.Add(domain.NewSubmission("p.txt", domain.ContentPlainText, "x", time.Now()))
	_, err = svc.ExportReport(context.Background())
	assert.ErrorIs(t, err, errs.NothingToExport)
}

func TestExportService_Files(t *testing.T) {
	svc, st, surface := newExportService(t)
	st.Add(completedSub("a.txt"), domain.NewSubmission("b.txt", domain.ContentPlainText, "x", time.Now()), completedSub("c.txt"))

	summary, err := svc.ExportSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "grading_summary_2025-03-09.csv", summary.Name)
	assert.Equal(t, csvContentType, summary.ContentType)

	report, err := svc.ExportReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grading_Report_2025-03-09.pdf", report.Name)
	assert.Equal(t, pdfContentType, report.ContentType)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, []string{"a.txt", "c.txt"}, surface.rendered)
}
