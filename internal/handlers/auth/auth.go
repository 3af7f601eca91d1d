package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/services/auth"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/handlers/response"
)

type Handler struct {
	authService auth.IAuthService
	logger      primary.Logger
}

func NewHandler(authService auth.IAuthService, logger primary.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
}

// Login exchanges the operator credentials for a bearer token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteBadRequest(w, "Invalid request")
		return
	}

	tokenStr, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.logger.Info("Login rejected", "username", req.Username)
		response.WriteErr(w, err)
		return
	}

	response.WriteSuccess(w, domain.LoginResponse{Token: tokenStr})
}
