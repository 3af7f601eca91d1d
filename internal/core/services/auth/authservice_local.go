package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/gradepro.net/internal/config"
	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

var _ IAuthService = &localAuthService{}

// PermissionGrade is granted to the operator account
const PermissionGrade = "grading.execute"

type localAuthService struct {
	username     string
	passwordHash string
	jwtProvider  primary.JWTService
	logger       primary.Logger
}

// NewLocalAuthService accepts the single operator account from configuration.
// The configured password is hashed once here and only the hash is kept.
func NewLocalAuthService(
	ctx context.Context,
	credentials *config.CredentialConfig,
	jwtProvider primary.JWTService,
	logger primary.Logger,
) (IAuthService, error) {
	hash, err := jwtProvider.EncryptPassword(ctx, credentials.Password)
	if err != nil {
		return nil, fmt.Errorf("hash operator password: %w", err)
	}
	return &localAuthService{
		username:     credentials.Username,
		passwordHash: hash,
		jwtProvider:  jwtProvider,
		logger:       logger,
	}, nil
}

func (g localAuthService) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	if req.Username == "" || req.Password == "" || req.Username != g.username {
		return "", errs.InvalidCredentials
	}
	valid, err := g.jwtProvider.VerifyPassword(ctx, g.passwordHash, req.Password)
	if err != nil || !valid {
		return "", errs.InvalidCredentials
	}

	authPayload := domain.AuthPayload{
		Username:   g.username,
		Permission: []string{PermissionGrade},
	}
	var buf bytes.Buffer

	err = json.NewEncoder(&buf).Encode(authPayload)
	if err != nil {
		return "", errs.InternalError
	}
	var payload map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &payload)
	if err != nil {
		g.logger.Error("Failed to unmarshal auth payload", "error", err)
		return "", errs.InternalError
	}
	token, err := g.jwtProvider.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, payload)
	if err != nil {
		g.logger.Error("Failed to sign token", "error", err)
		return "", errs.GeneratingToken
	}
	g.logger.Info("Operator logged in", "username", g.username)
	return token, nil
}

func (g localAuthService) Authorize(ctx context.Context, token string) (domain.AuthPayload, error) {
	valid, err := g.jwtProvider.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	if err != nil || !valid {
		return domain.AuthPayload{}, errs.InvalidToken
	}
	payload, err := g.jwtProvider.DecodeTokenPayload(ctx, token)
	if err != nil {
		return domain.AuthPayload{}, errs.InvalidToken
	}
	return payload, nil
}
