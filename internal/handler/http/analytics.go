package http

import (
	"LinkPulse-Backend/internal/analytics"
	"LinkPulse-Backend/internal/auth"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// AnalyticsHandler serves the dashboard's read-side queries.
type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
	log        *zap.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(aggregator *analytics.Aggregator, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		aggregator: aggregator,
		log:        log,
	}
}

// GetSummary returns headline statistics for the caller's scope.
//
//	@Summary		Scope summary statistics
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	analytics.Summary
//	@Router			/api/analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		h.writeError(w, "Scope not found in context", http.StatusUnauthorized)
		return
	}

	summary, err := h.aggregator.GetSummary(r.Context(), scope)
	if err != nil {
		h.log.Error("failed to compute summary", zap.Int64("user_id", scope.UserID), zap.Error(err))
		h.writeError(w, "Failed to compute summary", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, summary, http.StatusOK)
}

// GetReferrers returns the referrer-source breakdown for the caller's scope.
//
//	@Summary		Referrer breakdown
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	analytics.ReferrerReport
//	@Router			/api/analytics/referrers [get]
func (h *AnalyticsHandler) GetReferrers(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		h.writeError(w, "Scope not found in context", http.StatusUnauthorized)
		return
	}

	report, err := h.aggregator.GetReferrerAnalytics(r.Context(), scope)
	if err != nil {
		h.log.Error("failed to compute referrer analytics", zap.Int64("user_id", scope.UserID), zap.Error(err))
		h.writeError(w, "Failed to compute referrer analytics", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, report, http.StatusOK)
}

// GetTrends returns day-bucketed visit counts for the trailing window.
//
//	@Summary		Visit trends
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Param			days	query	int	false	"Trailing window in days (default 30)"
//	@Param			link_id	query	int	false	"Restrict to a single link"
//	@Success		200		{array}	analytics.TrendPoint
//	@Router			/api/analytics/trends [get]
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		h.writeError(w, "Scope not found in context", http.StatusUnauthorized)
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 365 {
			h.writeError(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	var linkID *int64
	if raw := r.URL.Query().Get("link_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, "Invalid link_id parameter", http.StatusBadRequest)
			return
		}
		linkID = &parsed
	}

	trend, err := h.aggregator.GetVisitTrends(r.Context(), scope, days, linkID)
	if err != nil {
		h.log.Error("failed to compute visit trends", zap.Int64("user_id", scope.UserID), zap.Error(err))
		h.writeError(w, "Failed to compute visit trends", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, trend, http.StatusOK)
}

// GetDevices returns the device-type breakdown for the caller's scope.
//
//	@Summary		Device breakdown
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]int64
//	@Router			/api/analytics/devices [get]
func (h *AnalyticsHandler) GetDevices(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		h.writeError(w, "Scope not found in context", http.StatusUnauthorized)
		return
	}

	devices, err := h.aggregator.GetDeviceAnalytics(r.Context(), scope)
	if err != nil {
		h.log.Error("failed to compute device analytics", zap.Int64("user_id", scope.UserID), zap.Error(err))
		h.writeError(w, "Failed to compute device analytics", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, devices, http.StatusOK)
}

func (h *AnalyticsHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *AnalyticsHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
