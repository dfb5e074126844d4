package http

import (
	"LinkPulse-Backend/internal/clicks"
	"LinkPulse-Backend/internal/repository"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RedirectHandler serves the public tracking-link endpoint. Tracking
// failures never block navigation: any failure redirects to the fallback
// destination instead of showing the visitor an error.
type RedirectHandler struct {
	recorder    *clicks.Recorder
	fallbackURL string
	log         *zap.Logger
}

// NewRedirectHandler creates a redirect handler.
func NewRedirectHandler(recorder *clicks.Recorder, fallbackURL string, log *zap.Logger) *RedirectHandler {
	if fallbackURL == "" {
		fallbackURL = "/"
	}
	return &RedirectHandler{
		recorder:    recorder,
		fallbackURL: fallbackURL,
		log:         log,
	}
}

// HandleRedirect resolves /t/{trackingCode} and issues a real HTTP
// redirect so crawlers, preview bots and non-JS clients land correctly.
//
//	@Summary		Resolve a tracking link
//	@Description	Records the click and redirects to the link's destination
//	@Tags			Redirect
//	@Param			trackingCode	path	string	true	"Tracking code"
//	@Success		302	"Redirect to the destination URL"
//	@Router			/t/{trackingCode} [get]
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	code := strings.Trim(strings.TrimPrefix(r.URL.Path, "/t/"), "/")
	if code == "" || strings.Contains(code, "/") {
		http.Redirect(w, r, h.fallbackURL, http.StatusFound)
		return
	}

	visit := clicks.Visit{
		ReferrerURL: r.Referer(),
		UserAgent:   r.UserAgent(),
		IPAddress:   extractIPAddress(r),
	}

	destination, err := h.recorder.RecordClick(r.Context(), code, visit)
	if err != nil {
		if err == repository.ErrLinkNotFound {
			h.log.Debug("tracking code not found", zap.String("tracking_code", code))
		} else {
			h.log.Error("failed to resolve tracking code", zap.String("tracking_code", code), zap.Error(err))
		}
		http.Redirect(w, r, h.fallbackURL, http.StatusFound)
		return
	}

	h.log.Info("redirect",
		zap.String("tracking_code", code),
		zap.String("destination", destination),
		zap.String("ip", visit.IPAddress))

	http.Redirect(w, r, destination, http.StatusFound)
}

// extractIPAddress extracts the client IP, honoring proxy headers in
// priority order.
func extractIPAddress(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For may contain a comma-separated chain.
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
