package grading

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/services/grading"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/handlers/response"
)

// GradingHandler handles batch runs and the shared grading configuration
type GradingHandler struct {
	gradingService grading.IGradingService
	configs        *grading.ConfigHolder
	logger         primary.Logger
}

func NewGradingHandler(gradingService grading.IGradingService, configs *grading.ConfigHolder, logger primary.Logger) *GradingHandler {
	return &GradingHandler{
		gradingService: gradingService,
		configs:        configs,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for GradingHandler
func (h *GradingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/grading/run", h.RunBatch).Methods("POST")
	router.HandleFunc("/grading/status", h.GetStatus).Methods("GET")
	router.HandleFunc("/config", h.GetConfig).Methods("GET")
	router.HandleFunc("/config", h.UpdateConfig).Methods("PATCH")
	router.HandleFunc("/models", h.ListModels).Methods("GET")
}

// RunBatchResponse reports how many submissions the new batch picked up
type RunBatchResponse struct {
	Selected int `json:"selected"`
}

// RunBatch starts grading every eligible submission in the background
func (h *GradingHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	selected, err := h.gradingService.StartBatch(r.Context())
	if err != nil {
		response.WriteErr(w, err)
		return
	}
	h.logger.Info("Batch accepted", "selected", selected)
	response.WriteJSON(w, http.StatusAccepted, RunBatchResponse{Selected: selected})
}

func (h *GradingHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, h.gradingService.Status())
}

func (h *GradingHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, h.configs.Snapshot())
}

// UpdateConfig applies a partial update; omitted fields keep their value
func (h *GradingHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch domain.GradingConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteBadRequest(w, "Invalid request")
		return
	}
	cfg, err := h.configs.Update(patch)
	if err != nil {
		response.WriteErr(w, err)
		return
	}
	h.logger.Info("Grading config updated", "model", cfg.Model)
	response.WriteSuccess(w, cfg)
}

// ListModelsResponse is the closed set of selectable models
type ListModelsResponse struct {
	Models []domain.Model `json:"models"`
}

func (h *GradingHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, ListModelsResponse{Models: h.configs.Models()})
}
