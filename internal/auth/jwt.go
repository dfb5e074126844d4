package auth

import (
	"LinkPulse-Backend/internal/config"
	"LinkPulse-Backend/internal/domain"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// ScopeClaims are the claims this backend consumes from the external auth
// service: who the caller is and which organization context, if any, they
// are acting in. Everything else about authentication lives upstream.
type ScopeClaims struct {
	UserID         int64  `json:"user_id"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}

// Scope converts the claims into the domain scope selector.
func (c *ScopeClaims) Scope() domain.Scope {
	return domain.Scope{
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
	}
}

// TokenService validates scope tokens issued by the auth collaborator.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a token service from config.
func NewTokenService(cfg *config.Auth) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// ValidateToken parses and verifies a scope token.
func (s *TokenService) ValidateToken(tokenString string) (*ScopeClaims, error) {
	claims := &ScopeClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IssueToken signs a scope token. Used by local tooling and tests; in
// production tokens come from the auth service.
func (s *TokenService) IssueToken(scope domain.Scope, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &ScopeClaims{
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ExtractTokenFromBearer returns the token part of an Authorization header.
func ExtractTokenFromBearer(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
