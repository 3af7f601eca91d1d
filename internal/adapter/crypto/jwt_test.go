package crypto

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/config"
)

func newService() *JWTServiceImpl {
	return NewJWTService(&config.JwtConfig{Secret: "test-secret", TokenTTL: time.Minute})
}

func TestHMACRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	token, err := svc.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, map[string]interface{}{
		"username":   "teacher",
		"permission": []string{"grading.run"},
	})
	require.NoError(t, err)

	ok, err := svc.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	require.NoError(t, err)
	assert.True(t, ok)

	payload, err := svc.DecodeTokenPayload(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "teacher", payload.Username)
	assert.Equal(t, []string{"grading.run"}, payload.Permission)
}

func TestVerifyTokenHMAC_RejectsOtherSecret(t *testing.T) {
	ctx := context.Background()
	token, err := newService().GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, map[string]interface{}{"username": "x"})
	require.NoError(t, err)

	other := NewJWTService(&config.JwtConfig{Secret: "another", TokenTTL: time.Minute})
	ok, err := other.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestVerifyTokenHMAC_RejectsExpired(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	token, err := svc.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, map[string]interface{}{
		"username": "x",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	ok, err := svc.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.False(t, ok)
}

func TestGenerateTokenHMAC_RejectsNonHMAC(t *testing.T) {
	_, err := newService().GenerateTokenHMAC(context.Background(), jwt.SigningMethodRS256.Name, map[string]interface{}{})
	assert.Error(t, err)
}

func TestDecodeTokenPayload_Malformed(t *testing.T) {
	_, err := newService().DecodeTokenPayload(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	hash, err := svc.EncryptPassword(ctx, "admin123")
	require.NoError(t, err)

	ok, err := svc.VerifyPassword(ctx, hash, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyPassword(ctx, hash, "wrong")
	assert.Error(t, err)
	assert.False(t, ok)
}
