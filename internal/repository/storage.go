package repository

import (
	"LinkPulse-Backend/internal/domain"
	"context"
	"errors"
	"time"
)

var (
	ErrLinkNotFound = errors.New("tracking link not found")
	ErrCodeExists   = errors.New("tracking code already exists")
)

// LinkPatch carries the mutable fields of a tracking link. Nil fields are
// left unchanged.
type LinkPatch struct {
	Name           *string
	Description    *string
	DestinationURL *string
}

// Storage is the persistence boundary for tracking links and their click
// events. Both the PostgreSQL and the in-memory backend implement it.
type Storage interface {
	// Link methods
	SaveLink(ctx context.Context, link *domain.TrackingLink) error
	GetLinkByCode(ctx context.Context, code string) (*domain.TrackingLink, error)
	GetLinkByID(ctx context.Context, id int64) (*domain.TrackingLink, error)
	ListLinksByScope(ctx context.Context, scope domain.Scope) ([]*domain.TrackingLink, error)
	UpdateLink(ctx context.Context, id int64, patch LinkPatch) error
	DeleteLink(ctx context.Context, id int64) error

	// CodeExists must consider deleted links as well: a tracking code is
	// never recycled for the lifetime of the system.
	CodeExists(ctx context.Context, code string) (bool, error)

	// RecordClick appends one click event and atomically increments the
	// owning link's visit counter and last-visit timestamp.
	RecordClick(ctx context.Context, event *domain.ClickEvent) error

	// Aggregation reads. Implementations must page linkIDs into bounded
	// batches rather than issuing one unbounded IN clause.
	CountClicksBySource(ctx context.Context, linkIDs []int64) ([]domain.SourceCount, error)
	CountClicksByDay(ctx context.Context, linkIDs []int64, since, until time.Time) (map[string]int64, error)
	CountClicksByDevice(ctx context.Context, linkIDs []int64) (map[string]int64, error)
	TopSourcesByLink(ctx context.Context, linkIDs []int64, limit int) (map[int64][]domain.SourceCount, error)
}
