package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

var statusByError = []struct {
	err    error
	status int
}{
	{errs.SubmissionNotFound, http.StatusNotFound},
	{errs.NothingToExport, http.StatusNotFound},
	{errs.AlreadyProcessing, http.StatusConflict},
	{errs.BatchRunning, http.StatusConflict},
	{errs.NotReanalyzable, http.StatusConflict},
	{errs.NotCompleted, http.StatusConflict},
	{errs.InvalidResult, http.StatusBadRequest},
	{errs.InvalidConfig, http.StatusBadRequest},
	{errs.UnknownModel, http.StatusBadRequest},
	{errs.NoFiles, http.StatusBadRequest},
	{errs.InvalidCredentials, http.StatusUnauthorized},
	{errs.InvalidToken, http.StatusUnauthorized},
}

// StatusFor maps a service error to its HTTP status; unknown errors are 500
func StatusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// FromError builds the error body for err. Internal failures do not leak their cause,
// export failures only name the stage.
func FromError(err error) ErrorMessage {
	status := StatusFor(err)
	msg := err.Error()
	var exportErr *domain.ExportError
	switch {
	case errors.As(err, &exportErr):
		msg = "export failed during " + exportErr.Stage
	case status == http.StatusInternalServerError:
		msg = http.StatusText(status)
	}
	return ErrorMessage{Message: msg, StatusCode: status}
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

// WriteErr writes the mapped error body for err
func WriteErr(w http.ResponseWriter, err error) {
	WriteError(w, FromError(err))
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteBadRequest reports a malformed request
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, ErrorMessage{Message: message, StatusCode: http.StatusBadRequest})
}

// WriteFile sends an export as a download
func WriteFile(w http.ResponseWriter, file *domain.ExportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	if file.Pages > 0 {
		w.Header().Set("X-Report-Pages", strconv.Itoa(file.Pages))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
