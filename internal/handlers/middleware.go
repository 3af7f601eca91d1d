package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/services/auth"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/handlers/response"
)

type payloadKey struct{}

type MiddlewareProvider struct {
	authService auth.IAuthService
	logger      primary.Logger
}

func New(authService auth.IAuthService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		authService: authService,
		logger:      logger,
	}
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.WriteError(w, response.ErrorMessage{Message: "Authorization header missing", StatusCode: http.StatusUnauthorized})
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		payload, err := m.authService.Authorize(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Rejected request token", "path", r.URL.Path, "error", err)
			response.WriteErr(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), payloadKey{}, payload)))
	})
}

// PayloadFromContext returns the caller identity set by JWTMiddleware
func PayloadFromContext(ctx context.Context) (domain.AuthPayload, bool) {
	payload, ok := ctx.Value(payloadKey{}).(domain.AuthPayload)
	return payload, ok
}
