package http

import (
	"LinkPulse-Backend/internal/analytics"
	"LinkPulse-Backend/internal/auth"
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository"
	"LinkPulse-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// topReferrersPerLink bounds the list-view projection.
const topReferrersPerLink = 3

// LinksHandler serves the link CRUD API.
type LinksHandler struct {
	links      *service.LinkService
	aggregator *analytics.Aggregator
	log        *zap.Logger
	baseURL    string
}

// NewLinksHandler creates a links handler.
func NewLinksHandler(links *service.LinkService, aggregator *analytics.Aggregator, log *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		links:      links,
		aggregator: aggregator,
		log:        log,
		baseURL:    baseURL,
	}
}

// CreateLinkRequest is the link creation payload.
type CreateLinkRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	DestinationURL string `json:"destination_url"`
}

// UpdateLinkRequest is the link patch payload; absent fields stay unchanged.
type UpdateLinkRequest struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	DestinationURL *string `json:"destination_url,omitempty"`
}

// LinkInfo is one link in API responses.
type LinkInfo struct {
	ID             int64                `json:"id"`
	TrackingCode   string               `json:"tracking_code"`
	TrackingURL    string               `json:"tracking_url"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	DestinationURL string               `json:"destination_url"`
	Visits         int64                `json:"visits"`
	LastVisit      string               `json:"last_visit,omitempty"`
	CreatedAt      string               `json:"created_at"`
	TopReferrers   []domain.SourceCount `json:"top_referrers,omitempty"`
}

// ListLinksResponse is the list endpoint payload.
type ListLinksResponse struct {
	Links []LinkInfo `json:"links"`
}

// CreateLink creates a new tracking link.
//
//	@Summary		Create a tracking link
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateLinkRequest	true	"Link creation request"
//	@Success		201		{object}	LinkInfo			"Link created"
//	@Failure		400		{object}	map[string]string	"Validation failure"
//	@Failure		401		{object}	map[string]string	"Authentication required"
//	@Router			/api/links [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		h.writeError(w, "Scope not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	link, err := h.links.CreateLink(r.Context(), scope, service.CreateLinkInput{
		Name:           req.Name,
		Description:    req.Description,
		DestinationURL: req.DestinationURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrInvalidDestinationURL):
			h.writeError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrCodeSpaceExhausted):
			h.log.Error("tracking code generation exhausted", zap.Error(err))
			h.writeError(w, "Failed to allocate tracking code", http.StatusInternalServerError)
		default:
			h.log.Error("failed to create link", zap.Error(err))
			h.writeError(w, "Failed to create link", http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("created tracking link",
		zap.String("tracking_code", link.TrackingCode),
		zap.Int64("user_id", scope.UserID))
	h.writeJSON(w, h.toLinkInfo(link, nil), http.StatusCreated)
}

// ListLinks returns the scope's links, newest first, each enriched with a
// top-referrers projection.
//
//	@Summary		List tracking links
//	@Tags			Links
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListLinksResponse
//	@Router			/api/links [get]
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		h.writeError(w, "Scope not found in context", http.StatusUnauthorized)
		return
	}

	links, err := h.links.ListLinks(r.Context(), scope)
	if err != nil {
		h.log.Error("failed to list links", zap.Int64("user_id", scope.UserID), zap.Error(err))
		h.writeError(w, "Failed to retrieve links", http.StatusInternalServerError)
		return
	}

	// Read-time join; list rendering survives its failure.
	topReferrers, err := h.aggregator.TopReferrersByLink(r.Context(), links, topReferrersPerLink)
	if err != nil {
		h.log.Warn("failed to load top referrers for list", zap.Error(err))
		topReferrers = map[int64][]domain.SourceCount{}
	}

	infos := make([]LinkInfo, len(links))
	for i, link := range links {
		infos[i] = h.toLinkInfo(link, topReferrers[link.ID])
	}

	h.writeJSON(w, ListLinksResponse{Links: infos}, http.StatusOK)
}

// UpdateLink patches a link's name, description or destination.
//
//	@Summary		Update a tracking link
//	@Tags			Links
//	@Accept			json
//	@Security		BearerAuth
//	@Param			id		path	int					true	"Link ID"
//	@Param			request	body	UpdateLinkRequest	true	"Fields to update"
//	@Success		204		"Link updated"
//	@Router			/api/links/{id} [patch]
func (h *LinksHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := h.scopeAndID(w, r)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	err := h.links.UpdateLink(r.Context(), scope, id, repository.LinkPatch{
		Name:           req.Name,
		Description:    req.Description,
		DestinationURL: req.DestinationURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLinkNotFound):
			h.writeError(w, "Link not found", http.StatusNotFound)
		case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrInvalidDestinationURL):
			h.writeError(w, err.Error(), http.StatusBadRequest)
		default:
			h.log.Error("failed to update link", zap.Int64("link_id", id), zap.Error(err))
			h.writeError(w, "Failed to update link", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteLink removes a link. Its click history is retained and its code
// is never reused.
//
//	@Summary		Delete a tracking link
//	@Tags			Links
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Link ID"
//	@Success		204	"Link deleted"
//	@Router			/api/links/{id} [delete]
func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := h.scopeAndID(w, r)
	if !ok {
		return
	}

	if err := h.links.DeleteLink(r.Context(), scope, id); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			h.writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete link", zap.Int64("link_id", id), zap.Error(err))
		h.writeError(w, "Failed to delete link", http.StatusInternalServerError)
		return
	}

	h.log.Info("deleted tracking link", zap.Int64("link_id", id), zap.Int64("user_id", scope.UserID))
	w.WriteHeader(http.StatusNoContent)
}

// scopeAndID pulls the caller scope from the context and the link ID from
// the path (/api/links/{id}).
func (h *LinksHandler) scopeAndID(w http.ResponseWriter, r *http.Request) (domain.Scope, int64, bool) {
	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		h.writeError(w, "Scope not found in context", http.StatusUnauthorized)
		return domain.Scope{}, 0, false
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[2] == "" {
		h.writeError(w, "Link ID is required", http.StatusBadRequest)
		return domain.Scope{}, 0, false
	}

	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		h.writeError(w, "Invalid link ID", http.StatusBadRequest)
		return domain.Scope{}, 0, false
	}

	return scope, id, true
}

func (h *LinksHandler) toLinkInfo(link *domain.TrackingLink, topReferrers []domain.SourceCount) LinkInfo {
	info := LinkInfo{
		ID:             link.ID,
		TrackingCode:   link.TrackingCode,
		TrackingURL:    h.baseURL + "/t/" + link.TrackingCode,
		Name:           link.Name,
		Description:    link.Description,
		DestinationURL: link.DestinationURL,
		Visits:         link.Visits,
		CreatedAt:      link.CreatedAt.Format(time.RFC3339),
		TopReferrers:   topReferrers,
	}
	if link.LastVisit != nil {
		info.LastVisit = link.LastVisit.Format(time.RFC3339)
	}
	return info
}

// Helper methods

func (h *LinksHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *LinksHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
