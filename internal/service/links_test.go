package service

import (
	"LinkPulse-Backend/internal/config"
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository"
	"LinkPulse-Backend/internal/repository/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrackingConfig() *config.Tracking {
	return &config.Tracking{
		CodeLength:      6,
		CodeMaxAttempts: 10,
	}
}

// collidingStorage reports every candidate code as taken for the first
// `collisions` checks, then defers to the underlying storage.
type collidingStorage struct {
	repository.Storage
	collisions int
	checks     int
}

func (c *collidingStorage) CodeExists(ctx context.Context, code string) (bool, error) {
	c.checks++
	if c.checks <= c.collisions {
		return true, nil
	}
	return c.Storage.CodeExists(ctx, code)
}

func TestCreateLink(t *testing.T) {
	storage := memory.New()
	svc := NewLinkService(storage, testTrackingConfig())
	scope := domain.Scope{UserID: 1}

	link, err := svc.CreateLink(context.Background(), scope, CreateLinkInput{
		Name:           "  Summer Campaign  ",
		Description:    "newsletter link",
		DestinationURL: "example.com/landing",
	})
	require.NoError(t, err)

	assert.Len(t, link.TrackingCode, 6)
	assert.Equal(t, "Summer Campaign", link.Name)
	assert.Equal(t, "https://example.com/landing", link.DestinationURL)
	assert.Equal(t, int64(1), link.OwnerUserID)
	assert.Nil(t, link.OrganizationID)
	assert.True(t, link.IsActive)

	stored, err := storage.GetLinkByCode(context.Background(), link.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, link.ID, stored.ID)
}

func TestCreateLink_Validation(t *testing.T) {
	svc := NewLinkService(memory.New(), testTrackingConfig())
	scope := domain.Scope{UserID: 1}

	_, err := svc.CreateLink(context.Background(), scope, CreateLinkInput{
		Name:           "   ",
		DestinationURL: "https://example.com",
	})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.CreateLink(context.Background(), scope, CreateLinkInput{
		Name:           "campaign",
		DestinationURL: "",
	})
	assert.ErrorIs(t, err, ErrInvalidDestinationURL)

	_, err = svc.CreateLink(context.Background(), scope, CreateLinkInput{
		Name:           "campaign",
		DestinationURL: "ftp://example.com/file",
	})
	assert.ErrorIs(t, err, ErrInvalidDestinationURL)
}

func TestCreateLink_RetriesOnCollision(t *testing.T) {
	colliding := &collidingStorage{Storage: memory.New(), collisions: 3}
	svc := NewLinkService(colliding, testTrackingConfig())

	link, err := svc.CreateLink(context.Background(), domain.Scope{UserID: 1}, CreateLinkInput{
		Name:           "campaign",
		DestinationURL: "https://example.com",
	})
	require.NoError(t, err)
	assert.Len(t, link.TrackingCode, 6)
	assert.Equal(t, 4, colliding.checks)
}

func TestCreateLink_CodeSpaceExhausted(t *testing.T) {
	colliding := &collidingStorage{Storage: memory.New(), collisions: 1 << 30}
	svc := NewLinkService(colliding, testTrackingConfig())

	_, err := svc.CreateLink(context.Background(), domain.Scope{UserID: 1}, CreateLinkInput{
		Name:           "campaign",
		DestinationURL: "https://example.com",
	})
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, 10, colliding.checks)
}

func TestUpdateLink_ScopeMismatch(t *testing.T) {
	storage := memory.New()
	svc := NewLinkService(storage, testTrackingConfig())

	link, err := svc.CreateLink(context.Background(), domain.Scope{UserID: 1}, CreateLinkInput{
		Name:           "campaign",
		DestinationURL: "https://example.com",
	})
	require.NoError(t, err)

	name := "stolen"
	err = svc.UpdateLink(context.Background(), domain.Scope{UserID: 2}, link.ID, repository.LinkPatch{Name: &name})
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	// Unchanged for the real owner.
	got, err := storage.GetLinkByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, "campaign", got.Name)
}

func TestUpdateLink_NormalizesDestination(t *testing.T) {
	storage := memory.New()
	svc := NewLinkService(storage, testTrackingConfig())
	scope := domain.Scope{UserID: 1}

	link, err := svc.CreateLink(context.Background(), scope, CreateLinkInput{
		Name:           "campaign",
		DestinationURL: "https://example.com",
	})
	require.NoError(t, err)

	destination := "example.org/new"
	require.NoError(t, svc.UpdateLink(context.Background(), scope, link.ID, repository.LinkPatch{
		DestinationURL: &destination,
	}))

	got, err := storage.GetLinkByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/new", got.DestinationURL)
}

func TestDeleteLink_BurnsCode(t *testing.T) {
	storage := memory.New()
	svc := NewLinkService(storage, testTrackingConfig())
	scope := domain.Scope{UserID: 1}

	link, err := svc.CreateLink(context.Background(), scope, CreateLinkInput{
		Name:           "campaign",
		DestinationURL: "https://example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLink(context.Background(), scope, link.ID))

	_, err = storage.GetLinkByCode(context.Background(), link.TrackingCode)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	// The code stays burned after deletion.
	exists, err := storage.CodeExists(context.Background(), link.TrackingCode)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListLinks_ScopesAreDisjoint(t *testing.T) {
	storage := memory.New()
	svc := NewLinkService(storage, testTrackingConfig())

	orgID := int64(7)
	personal := domain.Scope{UserID: 1}
	organization := domain.Scope{UserID: 1, OrganizationID: &orgID}

	_, err := svc.CreateLink(context.Background(), personal, CreateLinkInput{
		Name:           "personal",
		DestinationURL: "https://example.com/a",
	})
	require.NoError(t, err)

	_, err = svc.CreateLink(context.Background(), organization, CreateLinkInput{
		Name:           "org",
		DestinationURL: "https://example.com/b",
	})
	require.NoError(t, err)

	personalLinks, err := svc.ListLinks(context.Background(), personal)
	require.NoError(t, err)
	require.Len(t, personalLinks, 1)
	assert.Equal(t, "personal", personalLinks[0].Name)

	orgLinks, err := svc.ListLinks(context.Background(), organization)
	require.NoError(t, err)
	require.Len(t, orgLinks, 1)
	assert.Equal(t, "org", orgLinks[0].Name)
}

func TestNormalizeDestinationURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"already_https", "https://example.com/page", "https://example.com/page", false},
		{"plain_http_kept", "http://example.com", "http://example.com", false},
		{"scheme_prepended", "example.com", "https://example.com", false},
		{"scheme_prepended_with_path", "example.com/a?b=c", "https://example.com/a?b=c", false},
		{"empty", "", "", true},
		{"whitespace", "   ", "", true},
		{"unsupported_scheme", "ftp://example.com", "", true},
		{"no_host", "https://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDestinationURL(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDestinationURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
