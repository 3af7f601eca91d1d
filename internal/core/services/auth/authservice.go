package auth

import (
	"context"

	"gitlab.com/gradepro.net/internal/domain"
)

type IAuthService interface {
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	Authorize(ctx context.Context, token string) (domain.AuthPayload, error)
}
