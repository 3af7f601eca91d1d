package submissions

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/services/grading"
	"gitlab.com/gradepro.net/internal/core/services/submission"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/handlers"
	"gitlab.com/gradepro.net/internal/handlers/response"
	"gitlab.com/gradepro.net/internal/static/errs"
)

const (
	formFiles      = "files"
	maxResultBytes = 1 << 20
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	submissionService submission.ISubmissionService
	gradingService    grading.IGradingService
	maxUploadBytes    int64
	logger            primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(
	submissionService submission.ISubmissionService,
	gradingService grading.IGradingService,
	maxUploadMB int,
	logger primary.Logger,
) *SubmissionHandler {
	if maxUploadMB < 1 {
		maxUploadMB = 1
	}
	return &SubmissionHandler{
		submissionService: submissionService,
		gradingService:    gradingService,
		maxUploadBytes:    int64(maxUploadMB) << 20,
		logger:            logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/submissions", h.ListSubmissions).Methods("GET")
	router.HandleFunc("/submissions", h.AddSubmissions).Methods("POST")
	router.HandleFunc("/submissions/{id}", h.GetSubmission).Methods("GET")
	router.HandleFunc("/submissions/{id}", h.DeleteSubmission).Methods("DELETE")
	router.HandleFunc("/submissions/{id}/result", h.EditResult).Methods("PUT")
	router.HandleFunc("/submissions/{id}/reanalyze", h.Reanalyze).Methods("POST")
}

func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs := h.submissionService.ListSubmissions(r.Context())
	response.WriteSuccess(w, ListSubmissionsResponse{Submissions: toViews(subs)})
}

// AddSubmissions accepts a multipart upload with one or more "files" parts.
// Optional "lastModified" values (unix millis) pair with the files by position.
func (h *SubmissionHandler) AddSubmissions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.Error("Failed to parse upload", "error", err)
		response.WriteBadRequest(w, "Invalid upload")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files, err := uploadedFiles(r)
	if err != nil {
		h.logger.Error("Failed to read upload", "error", err)
		response.WriteBadRequest(w, "Invalid upload")
		return
	}

	added, err := h.submissionService.AddSubmissions(r.Context(), files)
	if err != nil {
		response.WriteErr(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, ListSubmissionsResponse{Submissions: toViews(added)})
}

func uploadedFiles(r *http.Request) ([]domain.UploadedFile, error) {
	headers := r.MultipartForm.File[formFiles]
	stamps := r.MultipartForm.Value["lastModified"]
	now := time.Now().UTC()

	files := make([]domain.UploadedFile, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}

		modified := now
		if len(stamps) == len(headers) {
			if ms, err := strconv.ParseInt(stamps[i], 10, 64); err == nil {
				modified = time.UnixMilli(ms).UTC()
			}
		}
		files = append(files, domain.UploadedFile{
			Name:         fh.Filename,
			ContentType:  fh.Header.Get("Content-Type"),
			Data:         data,
			LastModified: modified,
		})
	}
	return files, nil
}

func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}
	sub, err := h.submissionService.GetSubmission(r.Context(), id)
	if err != nil {
		response.WriteErr(w, err)
		return
	}
	response.WriteSuccess(w, toView(sub))
}

func (h *SubmissionHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.submissionService.DeleteSubmission(r.Context(), id); err != nil {
		response.WriteErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EditResult replaces the grading result with the operator's corrected one
func (h *SubmissionHandler) EditResult(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxResultBytes))
	if err != nil {
		response.WriteBadRequest(w, "Invalid request")
		return
	}
	missing, err := domain.MissingResultFields(body)
	if err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteBadRequest(w, "Invalid request")
		return
	}
	if len(missing) > 0 {
		response.WriteErr(w, fmt.Errorf("%w: missing %s", errs.InvalidResult, strings.Join(missing, ", ")))
		return
	}
	var result domain.GradingResult
	if err := json.Unmarshal(body, &result); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteBadRequest(w, "Invalid request")
		return
	}

	sub, err := h.submissionService.EditResult(r.Context(), id, result)
	if err != nil {
		response.WriteErr(w, err)
		return
	}
	response.WriteSuccess(w, toView(sub))
}

// Reanalyze claims the submission and grades it again in the background
func (h *SubmissionHandler) Reanalyze(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.gradingService.StartReanalyze(r.Context(), id); err != nil {
		response.WriteErr(w, err)
		return
	}
	response.WriteJSON(w, http.StatusAccepted, ReanalyzeResponse{ID: id.String(), Status: "queued"})
}
