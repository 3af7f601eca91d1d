package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/adapter/crypto"
	"gitlab.com/gradepro.net/internal/adapter/logging"
	"gitlab.com/gradepro.net/internal/config"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

func newAuth(t *testing.T) IAuthService {
	t.Helper()
	jwtSvc := crypto.NewJWTService(&config.JwtConfig{Secret: "s3cret", TokenTTL: time.Minute})
	svc, err := NewLocalAuthService(
		context.Background(),
		&config.CredentialConfig{Username: "teacher", Password: "admin123"},
		jwtSvc,
		logging.NewNopLogger(),
	)
	require.NoError(t, err)
	return svc
}

func TestLogin_IssuesTokenThatAuthorizes(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)

	token, err := svc.Login(ctx, domain.LoginRequest{Username: "teacher", Password: "admin123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := svc.Authorize(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "teacher", payload.Username)
	assert.Contains(t, payload.Permission, PermissionGrade)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := newAuth(t)
	tests := []domain.LoginRequest{
		{Username: "teacher", Password: "wrong"},
		{Username: "student", Password: "admin123"},
		{Username: "", Password: ""},
	}
	for _, req := range tests {
		_, err := svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, errs.InvalidCredentials, "user %q", req.Username)
	}
}

func TestAuthorize_RejectsGarbage(t *testing.T) {
	_, err := newAuth(t).Authorize(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, errs.InvalidToken)
}
