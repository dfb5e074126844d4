package auth

import (
	"LinkPulse-Backend/internal/config"
	"LinkPulse-Backend/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&config.Auth{
		JWTSecret: "test-secret",
		Issuer:    "linkpulse-test",
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService()
	orgID := int64(7)
	scope := domain.Scope{UserID: 42, OrganizationID: &orgID}

	token, err := svc.IssueToken(scope, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	require.NotNil(t, claims.OrganizationID)
	assert.Equal(t, int64(7), *claims.OrganizationID)
	assert.Equal(t, scope, claims.Scope())
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueToken(domain.Scope{UserID: 1}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := newTestTokenService().IssueToken(domain.Scope{UserID: 1}, time.Hour)
	require.NoError(t, err)

	other := NewTokenService(&config.Auth{JWTSecret: "different-secret", Issuer: "linkpulse-test"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	issuer := NewTokenService(&config.Auth{JWTSecret: "test-secret", Issuer: "someone-else"})
	token, err := issuer.IssueToken(domain.Scope{UserID: 1}, time.Hour)
	require.NoError(t, err)

	_, err = newTestTokenService().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_ZeroUserID(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueToken(domain.Scope{}, time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromBearer("Bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromBearer("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromBearer("Basic dXNlcjpwYXNz"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
}
