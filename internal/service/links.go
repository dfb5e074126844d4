package service

import (
	"LinkPulse-Backend/internal/config"
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository"
	"LinkPulse-Backend/pkg/random"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrCodeSpaceExhausted means the bounded uniqueness search failed on
	// every attempt. At realistic scale a collision per attempt is next to
	// impossible, so this usually points at a storage problem rather than
	// genuine exhaustion.
	ErrCodeSpaceExhausted = errors.New("tracking code space exhausted")

	ErrNameRequired          = errors.New("link name is required")
	ErrInvalidDestinationURL = errors.New("destination URL is not valid")
)

// LinkService mints tracking codes and owns link lifecycle rules.
type LinkService struct {
	storage repository.Storage
	config  *config.Tracking
}

// NewLinkService creates a new link service.
func NewLinkService(storage repository.Storage, cfg *config.Tracking) *LinkService {
	return &LinkService{
		storage: storage,
		config:  cfg,
	}
}

// CreateLinkInput is the owner-supplied part of a new tracking link.
type CreateLinkInput struct {
	Name           string
	Description    string
	DestinationURL string
}

// CreateLink validates the input, normalizes the destination URL, mints a
// unique tracking code and persists the link under the given scope.
// Validation failures happen before any code is minted.
func (s *LinkService) CreateLink(ctx context.Context, scope domain.Scope, input CreateLinkInput) (*domain.TrackingLink, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}

	destination, err := NormalizeDestinationURL(input.DestinationURL)
	if err != nil {
		return nil, err
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	link := &domain.TrackingLink{
		TrackingCode:   code,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		DestinationURL: destination,
		OwnerUserID:    scope.UserID,
		OrganizationID: scope.OrganizationID,
	}

	if err := s.storage.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	return link, nil
}

// UpdateLink applies an owner-initiated patch after validating the new
// destination URL, if one is given. The normalized destination is written
// back into the patch.
func (s *LinkService) UpdateLink(ctx context.Context, scope domain.Scope, id int64, patch repository.LinkPatch) error {
	link, err := s.storage.GetLinkByID(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Owns(link) {
		return repository.ErrLinkNotFound
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrNameRequired
	}
	if patch.DestinationURL != nil {
		destination, err := NormalizeDestinationURL(*patch.DestinationURL)
		if err != nil {
			return err
		}
		patch.DestinationURL = &destination
	}

	return s.storage.UpdateLink(ctx, id, patch)
}

// DeleteLink removes a link owned by the scope. The tracking code stays
// burned and click history is kept.
func (s *LinkService) DeleteLink(ctx context.Context, scope domain.Scope, id int64) error {
	link, err := s.storage.GetLinkByID(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Owns(link) {
		return repository.ErrLinkNotFound
	}

	return s.storage.DeleteLink(ctx, id)
}

// ListLinks returns the scope's links, newest first.
func (s *LinkService) ListLinks(ctx context.Context, scope domain.Scope) ([]*domain.TrackingLink, error) {
	return s.storage.ListLinksByScope(ctx, scope)
}

// generateUniqueCode draws random codes until one is free, bounded by the
// configured attempt count.
func (s *LinkService) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.config.CodeMaxAttempts; attempt++ {
		code, err := random.NewRandomString(s.config.CodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}

		exists, err := s.storage.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code existence: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}

// NormalizeDestinationURL validates a destination and prepends https://
// when the caller omitted a scheme.
func NormalizeDestinationURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidDestinationURL
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Hostname() == "" {
		return "", ErrInvalidDestinationURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrInvalidDestinationURL
	}

	return parsed.String(), nil
}
