package exports

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/services/export"
	"gitlab.com/gradepro.net/internal/handlers/response"
)

// ExportHandler serves the CSV summary and the PDF report as downloads
type ExportHandler struct {
	exportService export.IExportService
	logger        primary.Logger
}

func NewExportHandler(exportService export.IExportService, logger primary.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

func (h *ExportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/exports/summary", h.ExportSummary).Methods("GET")
	router.HandleFunc("/exports/report", h.ExportReport).Methods("GET")
}

func (h *ExportHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.ExportSummary(r.Context())
	if err != nil {
		response.WriteErr(w, err)
		return
	}
	response.WriteFile(w, file)
}

func (h *ExportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.ExportReport(r.Context())
	if err != nil {
		h.logger.Error("Report export failed", "error", err)
		response.WriteErr(w, err)
		return
	}
	response.WriteFile(w, file)
}
