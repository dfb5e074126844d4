package http

import (
	"LinkPulse-Backend/internal/analytics"
	"LinkPulse-Backend/internal/auth"
	"LinkPulse-Backend/internal/clicks"
	"LinkPulse-Backend/internal/service"
	"net/http"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server wires the HTTP handlers and middleware together.
type Server struct {
	linksHandler     *LinksHandler
	analyticsHandler *AnalyticsHandler
	redirectHandler  *RedirectHandler
	healthHandler    *HealthHandler
	authMiddleware   *auth.Middleware
	log              *zap.Logger
}

// NewServer creates the HTTP server.
func NewServer(
	linkService *service.LinkService,
	aggregator *analytics.Aggregator,
	recorder *clicks.Recorder,
	tokenService *auth.TokenService,
	pinger Pinger,
	stats StatsProvider,
	log *zap.Logger,
	baseURL string,
	fallbackURL string,
) *Server {
	return &Server{
		linksHandler:     NewLinksHandler(linkService, aggregator, log, baseURL),
		analyticsHandler: NewAnalyticsHandler(aggregator, log),
		redirectHandler:  NewRedirectHandler(recorder, fallbackURL, log),
		healthHandler:    NewHealthHandler(pinger, stats, log),
		authMiddleware:   auth.NewMiddleware(tokenService, log),
		log:              log,
	}
}

// SetupRoutes builds the route table.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks (no authentication)
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)
	mux.HandleFunc("/metrics", s.healthHandler.Metrics)

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Public redirect endpoint (no authentication)
	mux.HandleFunc("/t/", s.redirectHandler.HandleRedirect)

	// Link API (scope-authenticated)
	mux.HandleFunc("/api/links", s.protected(s.handleLinksCollection))
	mux.HandleFunc("/api/links/", s.protected(s.handleLinksItem))

	// Analytics API (scope-authenticated)
	mux.HandleFunc("/api/analytics/summary", s.protected(s.analyticsHandler.GetSummary))
	mux.HandleFunc("/api/analytics/referrers", s.protected(s.analyticsHandler.GetReferrers))
	mux.HandleFunc("/api/analytics/trends", s.protected(s.analyticsHandler.GetTrends))
	mux.HandleFunc("/api/analytics/devices", s.protected(s.analyticsHandler.GetDevices))

	return s.withRequestID(mux)
}

// handleLinksCollection routes /api/links by method.
func (s *Server) handleLinksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.linksHandler.CreateLink(w, r)
	case http.MethodGet:
		s.linksHandler.ListLinks(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleLinksItem routes /api/links/{id} by method.
func (s *Server) handleLinksItem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPatch:
		s.linksHandler.UpdateLink(w, r)
	case http.MethodDelete:
		s.linksHandler.DeleteLink(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// protected applies CORS and scope resolution to an API handler.
func (s *Server) protected(handler http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware.CORS(s.authMiddleware.RequireScope(handler))
}

// withRequestID tags every request with an ID for log correlation.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}
