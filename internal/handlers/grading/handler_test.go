package grading

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/adapter/logging"
	"gitlab.com/gradepro.net/internal/core/services/grading"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/handlers"
	"gitlab.com/gradepro.net/internal/static/errs"
)

type fakeGrading struct {
	grading.IGradingService
	selected int
	err      error
	status   grading.BatchStatus
}

func (f *fakeGrading) StartBatch(context.Context) (int, error) { return f.selected, f.err }

func (f *fakeGrading) Status() grading.BatchStatus { return f.status }

var models = []domain.Model{
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash"},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro"},
}

func newRouter(g *fakeGrading) (*mux.Router, *grading.ConfigHolder) {
	holder := grading.NewConfigHolder(domain.GradingConfig{
		AssignmentPrompt: "Essay on rivers",
		GradingRubric:    "Clarity",
		Model:            "gemini-2.5-flash",
	}, models)
	r := mux.NewRouter()
	NewGradingHandler(g, holder, logging.NewNopLogger()).RegisterRoutes(handlers.APIRouter(r))
	return r, holder
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRunBatch(t *testing.T) {
	g := &fakeGrading{selected: 3}
	r, _ := newRouter(g)

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/api/grading/run", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"selected":3}`, rec.Body.String())

	g.err = errs.BatchRunning
	rec = serve(r, httptest.NewRequest(http.MethodPost, "/api/grading/run", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetStatus(t *testing.T) {
	g := &fakeGrading{status: grading.BatchStatus{Running: true, Selected: 4, Processed: 1}}
	r, _ := newRouter(g)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/grading/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got grading.BatchStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Running)
	assert.Equal(t, 4, got.Selected)
}

func TestUpdateConfig_Partial(t *testing.T) {
	r, holder := newRouter(&fakeGrading{})

	rec := serve(r, httptest.NewRequest(http.MethodPatch, "/api/config", strings.NewReader(`{"model":"gemini-2.5-pro"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cfg := holder.Snapshot()
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "Essay on rivers", cfg.AssignmentPrompt)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	assert.JSONEq(t, `{"assignmentPrompt":"Essay on rivers","gradingRubric":"Clarity","model":"gemini-2.5-pro"}`, rec.Body.String())
}

func TestUpdateConfig_UnknownModel(t *testing.T) {
	r, holder := newRouter(&fakeGrading{})

	rec := serve(r, httptest.NewRequest(http.MethodPatch, "/api/config", strings.NewReader(`{"model":"gpt-9"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "gemini-2.5-flash", holder.Snapshot().Model)

	rec = serve(r, httptest.NewRequest(http.MethodPatch, "/api/config", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListModels(t *testing.T) {
	r, _ := newRouter(&fakeGrading{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got ListModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models, got.Models)
}
