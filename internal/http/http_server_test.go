package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/adapter/crypto"
	"gitlab.com/gradepro.net/internal/adapter/logging"
	"gitlab.com/gradepro.net/internal/config"
	auth2 "gitlab.com/gradepro.net/internal/core/services/auth"
	"gitlab.com/gradepro.net/internal/core/services/export"
	"gitlab.com/gradepro.net/internal/core/services/extract"
	"gitlab.com/gradepro.net/internal/core/services/grading"
	"gitlab.com/gradepro.net/internal/core/services/store"
	"gitlab.com/gradepro.net/internal/core/services/submission"
	"gitlab.com/gradepro.net/internal/domain"
)

type stubBackend struct{}

func (stubBackend) Grade(_ context.Context, content string, _ domain.ContentKind, _ domain.GradingConfig) (*domain.GradingResult, error) {
	return &domain.GradingResult{
		Score:            88,
		LetterGrade:      "B+",
		Summary:          "Graded " + content,
		Strengths:        []string{"structure"},
		Improvements:     []string{"sources"},
		DetailedFeedback: "ok",
	}, nil
}

func newTestServer(t *testing.T) (*Server, grading.IGradingService) {
	t.Helper()
	logger := logging.NewNopLogger()
	st := store.NewSubmissionStore(logger)
	extractor := extract.NewExtractService(nil, logger, 2)
	configs := grading.NewConfigHolder(domain.GradingConfig{Model: "m"}, []domain.Model{{ID: "m", Name: "M"}})
	gradingSvc := grading.NewGradingService(st, stubBackend{}, extractor, configs, &config.OrchestratorCfg{Workers: 1, MaxAttempts: 1}, logger)
	t.Cleanup(gradingSvc.Close)

	reportCfg := &config.ReportCfg{RenderWidthPx: 794, SlackUnits: 20, RenderScale: 1, JpegQuality: 90, Brand: "AI Grader Pro"}
	exportSvc := export.NewExportService(st, export.NewReportExporter(nil, nil, reportCfg, logger), logger)

	jwtSvc := crypto.NewJWTService(&config.JwtConfig{Secret: "test", TokenTTL: time.Minute})
	authSvc, err := auth2.NewLocalAuthService(context.Background(), &config.CredentialConfig{Username: "teacher", Password: "pw"}, jwtSvc, logger)
	require.NoError(t, err)

	sp := NewServiceProvider(submission.NewSubmissionService(st, extractor, logger), gradingSvc, configs, exportSvc, authSvc)
	s := NewServer(&config.HTTPConfig{Port: 0, ServiceName: "gradepro", MaxUploadMB: 2}, *sp, logger)
	require.NoError(t, s.Init())
	return s, gradingSvc
}

func call(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestInit_RequiresServices(t *testing.T) {
	s := NewServer(&config.HTTPConfig{}, ServiceProvider{}, logging.NewNopLogger())
	assert.Error(t, s.Init())
}

func TestAPIRequiresToken(t *testing.T) {
	s, _ := newTestServer(t)

	rec := call(s, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadGradeExportFlow(t *testing.T) {
	s, gradingSvc := newTestServer(t)

	rec := call(s, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"teacher","password":"pw"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var login domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	bearer := "Bearer " + login.Token

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "essay.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Factories drew workers to cities."))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer)
	rec = call(s, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/grading/run", nil)
	req.Header.Set("Authorization", bearer)
	rec = call(s, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"selected":1}`, rec.Body.String())
	gradingSvc.Wait()

	req = httptest.NewRequest(http.MethodGet, "/api/exports/summary", nil)
	req.Header.Set("Authorization", bearer)
	rec = call(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "essay.txt,COMPLETED,88,B+,Graded Factories drew workers to cities.")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "grading_summary_")
}

func TestAPIRoutesMountedUnderPrefix(t *testing.T) {
	s, _ := newTestServer(t)
	id := "7b0c1d6e-4a52-4f3e-9d0a-2f8e6c1b5a90"

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/submissions"},
		{http.MethodPost, "/api/submissions"},
		{http.MethodGet, "/api/submissions/" + id},
		{http.MethodDelete, "/api/submissions/" + id},
		{http.MethodPut, "/api/submissions/" + id + "/result"},
		{http.MethodPost, "/api/submissions/" + id + "/reanalyze"},
		{http.MethodPost, "/api/grading/run"},
		{http.MethodGet, "/api/grading/status"},
		{http.MethodGet, "/api/config"},
		{http.MethodPatch, "/api/config"},
		{http.MethodGet, "/api/models"},
		{http.MethodGet, "/api/exports/summary"},
		{http.MethodGet, "/api/exports/report"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := call(s, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	rec := call(s, httptest.NewRequest(http.MethodGet, "/api/api/submissions", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
