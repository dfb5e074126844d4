package memory

import (
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

// MemStorage is an in-memory Storage implementation with the same
// semantics as the PostgreSQL backend. Used by unit tests and for running
// the service without a database.
type MemStorage struct {
	mu           sync.RWMutex
	linksByID    map[int64]*domain.TrackingLink
	linksByCode  map[string]*domain.TrackingLink
	events       []*domain.ClickEvent
	linkCounter  int64
	eventCounter int64
}

func New() *MemStorage {
	return &MemStorage{
		linksByID:   make(map[int64]*domain.TrackingLink),
		linksByCode: make(map[string]*domain.TrackingLink),
	}
}

// --- Link Methods ---

func (s *MemStorage) SaveLink(_ context.Context, link *domain.TrackingLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Codes are never recycled: a soft-deleted link still blocks its code.
	if _, exists := s.linksByCode[link.TrackingCode]; exists {
		return repository.ErrCodeExists
	}

	s.linkCounter++
	link.ID = s.linkCounter
	link.IsActive = true
	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = now

	s.linksByID[link.ID] = link
	s.linksByCode[link.TrackingCode] = link
	return nil
}

func (s *MemStorage) GetLinkByCode(_ context.Context, code string) (*domain.TrackingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.linksByCode[code]
	if !ok || !link.IsActive {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (s *MemStorage) GetLinkByID(_ context.Context, id int64) (*domain.TrackingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.linksByID[id]
	if !ok || !link.IsActive {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (s *MemStorage) ListLinksByScope(_ context.Context, scope domain.Scope) ([]*domain.TrackingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var links []*domain.TrackingLink
	for _, link := range s.linksByID {
		if !link.IsActive || !scope.Owns(link) {
			continue
		}
		copied := *link
		links = append(links, &copied)
	}

	// Newest first, with ID as tiebreaker for equal timestamps.
	sort.Slice(links, func(i, j int) bool {
		if !links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].CreatedAt.After(links[j].CreatedAt)
		}
		return links[i].ID > links[j].ID
	})

	return links, nil
}

func (s *MemStorage) UpdateLink(_ context.Context, id int64, patch repository.LinkPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.linksByID[id]
	if !ok || !link.IsActive {
		return repository.ErrLinkNotFound
	}

	if patch.Name != nil {
		link.Name = *patch.Name
	}
	if patch.Description != nil {
		link.Description = *patch.Description
	}
	if patch.DestinationURL != nil {
		link.DestinationURL = *patch.DestinationURL
	}
	link.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *MemStorage) DeleteLink(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.linksByID[id]
	if !ok || !link.IsActive {
		return repository.ErrLinkNotFound
	}
	link.IsActive = false
	return nil
}

func (s *MemStorage) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.linksByCode[code]
	return ok, nil
}

// --- Click Methods ---

func (s *MemStorage) RecordClick(_ context.Context, event *domain.ClickEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.linksByID[event.TrackingLinkID]
	if !ok || !link.IsActive {
		return repository.ErrLinkNotFound
	}

	if event.ClickedAt.IsZero() {
		event.ClickedAt = time.Now().UTC()
	}
	s.eventCounter++
	event.ID = s.eventCounter
	copied := *event
	s.events = append(s.events, &copied)

	link.Visits++
	clickedAt := event.ClickedAt
	link.LastVisit = &clickedAt

	return nil
}

// --- Aggregation Methods ---

func (s *MemStorage) CountClicksBySource(_ context.Context, linkIDs []int64) ([]domain.SourceCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idSet := toIDSet(linkIDs)
	merged := make(map[string]*domain.SourceCount)
	for _, event := range s.events {
		if !idSet[event.TrackingLinkID] {
			continue
		}
		if existing, ok := merged[event.ReferrerSource]; ok {
			existing.Count++
		} else {
			merged[event.ReferrerSource] = &domain.SourceCount{
				Source:   event.ReferrerSource,
				Category: event.ReferrerCategory,
				Count:    1,
			}
		}
	}

	counts := make([]domain.SourceCount, 0, len(merged))
	for _, sc := range merged {
		counts = append(counts, *sc)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Source < counts[j].Source
	})

	return counts, nil
}

func (s *MemStorage) CountClicksByDay(_ context.Context, linkIDs []int64, since, until time.Time) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idSet := toIDSet(linkIDs)
	days := make(map[string]int64)
	for _, event := range s.events {
		if !idSet[event.TrackingLinkID] {
			continue
		}
		if event.ClickedAt.Before(since) || !event.ClickedAt.Before(until) {
			continue
		}
		days[event.ClickedAt.UTC().Format("2006-01-02")]++
	}

	return days, nil
}

func (s *MemStorage) CountClicksByDevice(_ context.Context, linkIDs []int64) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idSet := toIDSet(linkIDs)
	devices := make(map[string]int64)
	for _, event := range s.events {
		if !idSet[event.TrackingLinkID] {
			continue
		}
		device := event.DeviceType
		if device == "" {
			device = "unknown"
		}
		devices[device]++
	}

	return devices, nil
}

func (s *MemStorage) TopSourcesByLink(_ context.Context, linkIDs []int64, limit int) (map[int64][]domain.SourceCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idSet := toIDSet(linkIDs)
	type key struct {
		linkID int64
		source string
	}
	grouped := make(map[key]*domain.SourceCount)
	for _, event := range s.events {
		if !idSet[event.TrackingLinkID] {
			continue
		}
		k := key{linkID: event.TrackingLinkID, source: event.ReferrerSource}
		if existing, ok := grouped[k]; ok {
			existing.Count++
		} else {
			grouped[k] = &domain.SourceCount{
				Source:   event.ReferrerSource,
				Category: event.ReferrerCategory,
				Count:    1,
			}
		}
	}

	perLink := make(map[int64][]domain.SourceCount)
	for k, sc := range grouped {
		perLink[k.linkID] = append(perLink[k.linkID], *sc)
	}
	for id, counts := range perLink {
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].Count != counts[j].Count {
				return counts[i].Count > counts[j].Count
			}
			return counts[i].Source < counts[j].Source
		})
		if limit > 0 && len(counts) > limit {
			counts = counts[:limit]
		}
		perLink[id] = counts
	}

	return perLink, nil
}

// EventCount reports the number of stored click events. Test helper.
func (s *MemStorage) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func toIDSet(linkIDs []int64) map[int64]bool {
	set := make(map[int64]bool, len(linkIDs))
	for _, id := range linkIDs {
		set[id] = true
	}
	return set
}
