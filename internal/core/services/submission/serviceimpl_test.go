package submission

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/adapter/logging"
	"gitlab.com/gradepro.net/internal/core/services/extract"
	"gitlab.com/gradepro.net/internal/core/services/store"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

func newService() (*SubmissionService, *store.SubmissionStore) {
	logger := logging.NewNopLogger()
	st := store.NewSubmissionStore(logger)
	return NewSubmissionService(st, extract.NewExtractService(nil, logger, 4), logger), st
}

func TestAddSubmissions_OneStoreUpdateInUploadOrder(t *testing.T) {
	svc, st := newService()
	updates := 0
	st.Subscribe(func(domain.StoreChange, []domain.Submission) { updates++ })

	files := []domain.UploadedFile{
		{Name: "a.txt", ContentType: "text/plain", Data: []byte("a"), LastModified: time.Now()},
		{Name: "b.docx", Data: []byte("zip"), LastModified: time.Now()},
		{Name: "c.pdf", ContentType: "application/pdf", Data: []byte("%PDF"), LastModified: time.Now()},
	}
	subs, err := svc.AddSubmissions(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 1, updates)
	list := svc.ListSubmissions(context.Background())
	require.Len(t, list, 3)
	for i := range files {
		assert.Equal(t, files[i].Name, list[i].FileName)
		assert.Equal(t, subs[i].ID, list[i].ID)
	}
	assert.Equal(t, domain.StatusPending, list[0].Status)
	assert.Equal(t, domain.StatusError, list[1].Status)
	assert.Equal(t, domain.StatusPending, list[2].Status)
}

func TestAddSubmissions_NoFiles(t *testing.T) {
	svc, _ := newService()
	_, err := svc.AddSubmissions(context.Background(), nil)
	assert.ErrorIs(t, err, errs.NoFiles)
}

func TestDeleteSubmission(t *testing.T) {
	svc, st := newService()
	sub := domain.NewSubmission("a.txt", domain.ContentPlainText, "a", time.Now())
	st.Add(sub)

	require.NoError(t, svc.DeleteSubmission(context.Background(), sub.ID))
	assert.ErrorIs(t, svc.DeleteSubmission(context.Background(), sub.ID), errs.SubmissionNotFound)
	_, err := svc.GetSubmission(context.Background(), sub.ID)
	assert.ErrorIs(t, err, errs.SubmissionNotFound)
}

func TestEditResult(t *testing.T) {
	svc, st := newService()
	sub := domain.NewSubmission("a.txt", domain.ContentPlainText, "a", time.Now())
	st.Add(sub)

	edited := domain.GradingResult{Score: 93, LetterGrade: "A", Summary: "s", Strengths: []string{}, Improvements: []string{"x"}}

	_, err := svc.EditResult(context.Background(), sub.ID, edited)
	assert.ErrorIs(t, err, errs.NotCompleted)

	_, err = st.UpdateStatus(sub.ID, store.StatusUpdate{Status: domain.StatusCompleted, Result: &domain.GradingResult{
		Score: 70, LetterGrade: "C", Strengths: []string{}, Improvements: []string{},
	}})
	require.NoError(t, err)

	got, err := svc.EditResult(context.Background(), sub.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, edited, *got.Result)

	_, err = svc.EditResult(context.Background(), sub.ID, domain.GradingResult{Score: 1})
	assert.ErrorIs(t, err, errs.InvalidResult)

	_, err = svc.EditResult(context.Background(), uuid.New(), edited)
	assert.ErrorIs(t, err, errs.SubmissionNotFound)
}
