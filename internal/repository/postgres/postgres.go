package postgres

import (
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository"
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// linkIDBatchSize bounds the number of IDs per IN clause. Aggregation
// queries page through the link list in batches of this size and merge
// the results, so scopes with many links are never truncated.
const linkIDBatchSize = 10

// PostgresStorage implements the Storage interface for PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a new PostgreSQL storage instance.
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Link Methods ---

// SaveLink persists a new tracking link.
func (s *PostgresStorage) SaveLink(ctx context.Context, link *domain.TrackingLink) error {
	// The tracking code must be unique across active and deleted links.
	exists, err := s.CodeExists(ctx, link.TrackingCode)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrCodeExists
	}

	link.IsActive = true
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		s.log.Error("failed to save tracking link", zap.String("code", link.TrackingCode), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new tracking link",
		zap.String("code", link.TrackingCode),
		zap.Int64("owner_user_id", link.OwnerUserID))
	return nil
}

// GetLinkByCode returns the active link with the given tracking code.
func (s *PostgresStorage) GetLinkByCode(ctx context.Context, code string) (*domain.TrackingLink, error) {
	var link domain.TrackingLink

	err := s.db.WithContext(ctx).Where("tracking_code = ? AND is_active = ?", code, true).First(&link).Error
	if err == gorm.ErrRecordNotFound {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link by code", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// GetLinkByID returns the active link with the given ID.
func (s *PostgresStorage) GetLinkByID(ctx context.Context, id int64) (*domain.TrackingLink, error) {
	var link domain.TrackingLink

	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&link).Error
	if err == gorm.ErrRecordNotFound {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link by id", zap.Int64("link_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// ListLinksByScope returns the scope's links, newest first. An organization
// scope sees every link of the organization regardless of creator; a
// personal scope sees only the user's links with no organization set.
func (s *PostgresStorage) ListLinksByScope(ctx context.Context, scope domain.Scope) ([]*domain.TrackingLink, error) {
	var links []*domain.TrackingLink

	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if scope.OrganizationID != nil {
		query = query.Where("organization_id = ?", *scope.OrganizationID)
	} else {
		query = query.Where("owner_user_id = ? AND organization_id IS NULL", scope.UserID)
	}

	if err := query.Order("created_at DESC").Find(&links).Error; err != nil {
		s.log.Error("failed to list links by scope", zap.Int64("user_id", scope.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	return links, nil
}

// UpdateLink applies a patch to a link's mutable fields.
func (s *PostgresStorage) UpdateLink(ctx context.Context, id int64, patch repository.LinkPatch) error {
	updates := make(map[string]interface{})
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.DestinationURL != nil {
		updates["destination_url"] = *patch.DestinationURL
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(&domain.TrackingLink{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(updates)
	if result.Error != nil {
		s.log.Error("failed to update link", zap.Int64("link_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to update link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrLinkNotFound
	}

	return nil
}

// DeleteLink soft-deletes a link. The row is kept so that the tracking
// code stays burned and click history remains queryable.
func (s *PostgresStorage) DeleteLink(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Model(&domain.TrackingLink{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		s.log.Error("failed to delete link", zap.Int64("link_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to delete link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrLinkNotFound
	}

	s.log.Info("deleted tracking link", zap.Int64("link_id", id))
	return nil
}

// CodeExists checks whether a tracking code was ever assigned, including
// to soft-deleted links.
func (s *PostgresStorage) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.TrackingLink{}).
		Where("tracking_code = ?", code).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check code existence", zap.String("code", code), zap.Error(err))
		return false, fmt.Errorf("failed to check code: %w", err)
	}

	return count > 0, nil
}

// --- Click Methods ---

// RecordClick appends one click event and bumps the link's visit counter
// in a single transaction. The counter update is a relative increment so
// concurrent clicks from different visitors are never lost.
func (s *PostgresStorage) RecordClick(ctx context.Context, event *domain.ClickEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link domain.TrackingLink
		err := tx.Where("id = ? AND is_active = ?", event.TrackingLinkID, true).First(&link).Error
		if err == gorm.ErrRecordNotFound {
			return repository.ErrLinkNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get link for click recording: %w", err)
		}

		if event.ClickedAt.IsZero() {
			event.ClickedAt = time.Now().UTC()
		}

		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create click event: %w", err)
		}

		err = tx.Model(&link).Updates(map[string]interface{}{
			"visits":     gorm.Expr("visits + 1"),
			"last_visit": event.ClickedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update visit counter: %w", err)
		}

		return nil
	})
}

// --- Aggregation Methods ---

// CountClicksBySource groups clicks over the given links by classified
// referrer source, merged across ID batches and sorted descending by count.
func (s *PostgresStorage) CountClicksBySource(ctx context.Context, linkIDs []int64) ([]domain.SourceCount, error) {
	type row struct {
		Source   string `gorm:"column:referrer_source"`
		Category string `gorm:"column:referrer_category"`
		Count    int64  `gorm:"column:count"`
	}

	merged := make(map[string]*domain.SourceCount)
	for _, batch := range batchLinkIDs(linkIDs) {
		var rows []row
		err := s.db.WithContext(ctx).
			Model(&domain.ClickEvent{}).
			Select("referrer_source, referrer_category, count(*) as count").
			Where("tracking_link_id IN ?", batch).
			Group("referrer_source, referrer_category").
			Find(&rows).Error
		if err != nil {
			s.log.Error("failed to count clicks by source", zap.Error(err))
			return nil, fmt.Errorf("failed to count clicks by source: %w", err)
		}

		for _, r := range rows {
			if existing, ok := merged[r.Source]; ok {
				existing.Count += r.Count
			} else {
				merged[r.Source] = &domain.SourceCount{Source: r.Source, Category: r.Category, Count: r.Count}
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

// CountClicksByDay groups clicks over the given links by UTC calendar day
// within [since, until), keyed by "YYYY-MM-DD".
func (s *PostgresStorage) CountClicksByDay(ctx context.Context, linkIDs []int64, since, until time.Time) (map[string]int64, error) {
	type row struct {
		Day   string `gorm:"column:day"`
		Count int64  `gorm:"column:count"`
	}

	days := make(map[string]int64)
	for _, batch := range batchLinkIDs(linkIDs) {
		var rows []row
		err := s.db.WithContext(ctx).
			Model(&domain.ClickEvent{}).
			Select("to_char(clicked_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') as day, count(*) as count").
			Where("tracking_link_id IN ? AND clicked_at >= ? AND clicked_at < ?", batch, since, until).
			Group("day").
			Find(&rows).Error
		if err != nil {
			s.log.Error("failed to count clicks by day", zap.Error(err))
			return nil, fmt.Errorf("failed to count clicks by day: %w", err)
		}

		for _, r := range rows {
			days[r.Day] += r.Count
		}
	}

	return days, nil
}

// CountClicksByDevice groups clicks over the given links by device type.
func (s *PostgresStorage) CountClicksByDevice(ctx context.Context, linkIDs []int64) (map[string]int64, error) {
	type row struct {
		DeviceType string `gorm:"column:device_type"`
		Count      int64  `gorm:"column:count"`
	}

	devices := make(map[string]int64)
	for _, batch := range batchLinkIDs(linkIDs) {
		var rows []row
		err := s.db.WithContext(ctx).
			Model(&domain.ClickEvent{}).
			Select("COALESCE(device_type, 'unknown') as device_type, count(*) as count").
			Where("tracking_link_id IN ?", batch).
			Group("device_type").
			Find(&rows).Error
		if err != nil {
			s.log.Error("failed to count clicks by device", zap.Error(err))
			return nil, fmt.Errorf("failed to count clicks by device: %w", err)
		}

		for _, r := range rows {
			devices[r.DeviceType] += r.Count
		}
	}

	return devices, nil
}

// TopSourcesByLink returns up to limit referrer sources per link, used for
// the list-view top-referrers projection.
func (s *PostgresStorage) TopSourcesByLink(ctx context.Context, linkIDs []int64, limit int) (map[int64][]domain.SourceCount, error) {
	type row struct {
		LinkID   int64  `gorm:"column:tracking_link_id"`
		Source   string `gorm:"column:referrer_source"`
		Category string `gorm:"column:referrer_category"`
		Count    int64  `gorm:"column:count"`
	}

	perLink := make(map[int64][]domain.SourceCount)
	for _, batch := range batchLinkIDs(linkIDs) {
		var rows []row
		err := s.db.WithContext(ctx).
			Model(&domain.ClickEvent{}).
			Select("tracking_link_id, referrer_source, referrer_category, count(*) as count").
			Where("tracking_link_id IN ?", batch).
			Group("tracking_link_id, referrer_source, referrer_category").
			Find(&rows).Error
		if err != nil {
			s.log.Error("failed to get top sources by link", zap.Error(err))
			return nil, fmt.Errorf("failed to get top sources: %w", err)
		}

		for _, r := range rows {
			perLink[r.LinkID] = append(perLink[r.LinkID], domain.SourceCount{
				Source:   r.Source,
				Category: r.Category,
				Count:    r.Count,
			})
		}
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

// batchLinkIDs splits a link-ID list into IN-clause sized chunks.
func batchLinkIDs(linkIDs []int64) [][]int64 {
	if len(linkIDs) == 0 {
		return nil
	}

	batches := make([][]int64, 0, (len(linkIDs)+linkIDBatchSize-1)/linkIDBatchSize)
	for start := 0; start < len(linkIDs); start += linkIDBatchSize {
		end := start + linkIDBatchSize
		if end > len(linkIDs) {
			end = len(linkIDs)
		}
		batches = append(batches, linkIDs[start:end])
	}

	return batches
}
