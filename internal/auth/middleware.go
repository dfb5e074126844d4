package auth

import (
	"LinkPulse-Backend/internal/domain"
	"context"
	"net/http"

	"go.uber.org/zap"
)

// ContextKey is the type for context keys set by this middleware.
type ContextKey string

// ScopeKey carries the caller's resolved ownership scope.
const ScopeKey ContextKey = "scope"

// Middleware resolves the caller's scope from the Authorization header.
type Middleware struct {
	tokens *TokenService
	log    *zap.Logger
}

// NewMiddleware creates a scope-resolution middleware.
func NewMiddleware(tokens *TokenService, log *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		log:    log,
	}
}

// RequireScope rejects requests without a valid scope token and injects
// the resolved domain.Scope into the request context.
func (m *Middleware) RequireScope(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.log.Debug("missing authorization header")
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		tokenString := ExtractTokenFromBearer(authHeader)
		if tokenString == "" {
			m.log.Debug("invalid authorization header format")
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			m.log.Debug("invalid scope token", zap.Error(err))
			if err == ErrExpiredToken {
				http.Error(w, "Token expired", http.StatusUnauthorized)
			} else {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ScopeKey, claims.Scope())
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetScopeFromContext extracts the caller's scope from the context.
func GetScopeFromContext(ctx context.Context) (domain.Scope, bool) {
	scope, ok := ctx.Value(ScopeKey).(domain.Scope)
	return scope, ok
}

// WithScope returns a context carrying the given scope. Test helper.
func WithScope(ctx context.Context, scope domain.Scope) context.Context {
	return context.WithValue(ctx, ScopeKey, scope)
}

// CORS adds CORS headers for the dashboard frontend.
func (m *Middleware) CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000", // dashboard dev server
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}
