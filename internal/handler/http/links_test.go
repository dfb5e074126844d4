package http

import (
	"LinkPulse-Backend/internal/analytics"
	"LinkPulse-Backend/internal/auth"
	"LinkPulse-Backend/internal/config"
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository/memory"
	"LinkPulse-Backend/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLinksFixture(t *testing.T) (*memory.MemStorage, *LinksHandler) {
	t.Helper()
	storage := memory.New()
	svc := service.NewLinkService(storage, &config.Tracking{CodeLength: 6, CodeMaxAttempts: 10})
	agg := analytics.NewAggregator(storage, zap.NewNop())
	return storage, NewLinksHandler(svc, agg, zap.NewNop(), "http://localhost:8080")
}

func scopedRequest(method, target string, body []byte, scope domain.Scope) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	return req.WithContext(auth.WithScope(req.Context(), scope))
}

func TestCreateLinkHandler(t *testing.T) {
	_, handler := newLinksFixture(t)

	body, _ := json.Marshal(CreateLinkRequest{
		Name:           "Summer Campaign",
		Description:    "newsletter",
		DestinationURL: "example.com/landing",
	})
	req := scopedRequest(http.MethodPost, "/api/links", body, domain.Scope{UserID: 1})
	rec := httptest.NewRecorder()

	handler.CreateLink(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var info LinkInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Len(t, info.TrackingCode, 6)
	assert.Equal(t, "http://localhost:8080/t/"+info.TrackingCode, info.TrackingURL)
	assert.Equal(t, "Summer Campaign", info.Name)
	assert.Equal(t, "https://example.com/landing", info.DestinationURL)
	assert.Equal(t, int64(0), info.Visits)
}

func TestCreateLinkHandler_Validation(t *testing.T) {
	_, handler := newLinksFixture(t)

	tests := []struct {
		name string
		req  CreateLinkRequest
	}{
		{"missing_name", CreateLinkRequest{DestinationURL: "https://example.com"}},
		{"missing_destination", CreateLinkRequest{Name: "campaign"}},
		{"bad_scheme", CreateLinkRequest{Name: "campaign", DestinationURL: "ftp://example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := scopedRequest(http.MethodPost, "/api/links", body, domain.Scope{UserID: 1})
			rec := httptest.NewRecorder()

			handler.CreateLink(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateLinkHandler_MalformedBody(t *testing.T) {
	_, handler := newLinksFixture(t)

	req := scopedRequest(http.MethodPost, "/api/links", []byte("{not json"), domain.Scope{UserID: 1})
	rec := httptest.NewRecorder()

	handler.CreateLink(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLinkHandler_NoScope(t *testing.T) {
	_, handler := newLinksFixture(t)

	body, _ := json.Marshal(CreateLinkRequest{Name: "campaign", DestinationURL: "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateLink(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListLinksHandler(t *testing.T) {
	storage, handler := newLinksFixture(t)
	scope := domain.Scope{UserID: 1}

	link := &domain.TrackingLink{
		TrackingCode:   "abc123",
		Name:           "campaign",
		DestinationURL: "https://example.com",
		OwnerUserID:    1,
	}
	require.NoError(t, storage.SaveLink(context.Background(), link))
	require.NoError(t, storage.RecordClick(context.Background(), &domain.ClickEvent{
		TrackingLinkID:   link.ID,
		TrackingCode:     link.TrackingCode,
		ClickedAt:        time.Now().UTC(),
		ReferrerSource:   "LinkedIn",
		ReferrerCategory: "social",
	}))

	req := scopedRequest(http.MethodGet, "/api/links", nil, scope)
	rec := httptest.NewRecorder()

	handler.ListLinks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListLinksResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Links, 1)
	assert.Equal(t, "abc123", resp.Links[0].TrackingCode)
	assert.Equal(t, int64(1), resp.Links[0].Visits)
	assert.NotEmpty(t, resp.Links[0].LastVisit)
	require.Len(t, resp.Links[0].TopReferrers, 1)
	assert.Equal(t, "LinkedIn", resp.Links[0].TopReferrers[0].Source)
}

func TestUpdateLinkHandler(t *testing.T) {
	storage, handler := newLinksFixture(t)

	link := &domain.TrackingLink{
		TrackingCode:   "abc123",
		Name:           "campaign",
		DestinationURL: "https://example.com",
		OwnerUserID:    1,
	}
	require.NoError(t, storage.SaveLink(context.Background(), link))

	name := "renamed"
	body, _ := json.Marshal(UpdateLinkRequest{Name: &name})
	req := scopedRequest(http.MethodPatch, "/api/links/1", body, domain.Scope{UserID: 1})
	rec := httptest.NewRecorder()

	handler.UpdateLink(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	got, err := storage.GetLinkByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
}

func TestUpdateLinkHandler_ForeignScope(t *testing.T) {
	storage, handler := newLinksFixture(t)

	require.NoError(t, storage.SaveLink(context.Background(), &domain.TrackingLink{
		TrackingCode:   "abc123",
		Name:           "campaign",
		DestinationURL: "https://example.com",
		OwnerUserID:    1,
	}))

	name := "stolen"
	body, _ := json.Marshal(UpdateLinkRequest{Name: &name})
	req := scopedRequest(http.MethodPatch, "/api/links/1", body, domain.Scope{UserID: 2})
	rec := httptest.NewRecorder()

	handler.UpdateLink(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLinkHandler(t *testing.T) {
	storage, handler := newLinksFixture(t)

	require.NoError(t, storage.SaveLink(context.Background(), &domain.TrackingLink{
		TrackingCode:   "abc123",
		Name:           "campaign",
		DestinationURL: "https://example.com",
		OwnerUserID:    1,
	}))

	req := scopedRequest(http.MethodDelete, "/api/links/1", nil, domain.Scope{UserID: 1})
	rec := httptest.NewRecorder()

	handler.DeleteLink(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := storage.GetLinkByID(context.Background(), 1)
	assert.Error(t, err)
}

func TestDeleteLinkHandler_BadID(t *testing.T) {
	_, handler := newLinksFixture(t)

	req := scopedRequest(http.MethodDelete, "/api/links/notanumber", nil, domain.Scope{UserID: 1})
	rec := httptest.NewRecorder()

	handler.DeleteLink(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
