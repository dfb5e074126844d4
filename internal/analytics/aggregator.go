package analytics

import (
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// recentWindowDays is the "recently created" horizon in the summary.
	recentWindowDays = 30
	// defaultTrendDays is the trailing window when the caller does not ask
	// for a specific one.
	defaultTrendDays = 30
)

// Summary is the dashboard headline block for one scope.
type Summary struct {
	TotalLinks     int     `json:"total_links"`
	TotalVisits    int64   `json:"total_visits"`
	ActiveLinks    int     `json:"active_links"`
	RecentLinks    int     `json:"recent_links"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ReferrerReport breaks a scope's clicks down by classified source.
type ReferrerReport struct {
	Sources    []SourceStat     `json:"sources"`
	Categories map[string]int64 `json:"categories"`
	Total      int64            `json:"total"`
}

// SourceStat is one row of the referrer breakdown.
type SourceStat struct {
	Source     string  `json:"source"`
	Category   string  `json:"category"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint is one calendar-day bucket of the visit trend.
type TrendPoint struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

// Aggregator computes read-side analytics over a scope's links. It is
// stateless; every query resolves fresh from storage.
type Aggregator struct {
	storage repository.Storage
	log     *zap.Logger
	now     func() time.Time
}

// NewAggregator creates an analytics aggregator.
func NewAggregator(storage repository.Storage, log *zap.Logger) *Aggregator {
	return &Aggregator{
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// GetSummary computes headline statistics from the links' cached visit
// counters. The counters are eventually consistent projections of the
// click-event log, which keeps this query cheap.
func (a *Aggregator) GetSummary(ctx context.Context, scope domain.Scope) (*Summary, error) {
	links, err := a.storage.ListLinksByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load links for summary: %w", err)
	}

	summary := &Summary{TotalLinks: len(links)}
	recentCutoff := a.now().UTC().AddDate(0, 0, -recentWindowDays)

	for _, link := range links {
		summary.TotalVisits += link.Visits
		if link.Visits > 0 {
			summary.ActiveLinks++
		}
		if link.CreatedAt.After(recentCutoff) {
			summary.RecentLinks++
		}
	}

	// Guard against division by zero for empty scopes.
	if summary.TotalLinks > 0 {
		summary.ConversionRate = float64(summary.ActiveLinks) / float64(summary.TotalLinks) * 100
	}

	return summary, nil
}

// GetReferrerAnalytics joins all click events of the scope's links and
// groups them by classified source, sorted descending by count.
func (a *Aggregator) GetReferrerAnalytics(ctx context.Context, scope domain.Scope) (*ReferrerReport, error) {
	linkIDs, err := a.scopeLinkIDs(ctx, scope)
	if err != nil {
		return nil, err
	}

	report := &ReferrerReport{
		Sources:    []SourceStat{},
		Categories: make(map[string]int64),
	}
	if len(linkIDs) == 0 {
		return report, nil
	}

	counts, err := a.storage.CountClicksBySource(ctx, linkIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate referrer sources: %w", err)
	}

	for _, sc := range counts {
		report.Total += sc.Count
		report.Categories[sc.Category] += sc.Count
	}
	for _, sc := range counts {
		stat := SourceStat{
			Source:   sc.Source,
			Category: sc.Category,
			Count:    sc.Count,
		}
		if report.Total > 0 {
			stat.Percentage = float64(sc.Count) / float64(report.Total) * 100
		}
		report.Sources = append(report.Sources, stat)
	}

	return report, nil
}

// GetVisitTrends returns one bucket per UTC calendar day for the trailing
// window, zero-filled and sorted ascending by date. A non-nil linkID
// restricts the trend to that single link; a link outside the caller's
// scope yields all-zero buckets rather than leaking foreign data.
func (a *Aggregator) GetVisitTrends(ctx context.Context, scope domain.Scope, days int, linkID *int64) ([]TrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}

	linkIDs, err := a.scopeLinkIDs(ctx, scope)
	if err != nil {
		return nil, err
	}
	if linkID != nil {
		linkIDs = filterID(linkIDs, *linkID)
	}

	today := a.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))
	until := today.AddDate(0, 0, 1)

	byDay := map[string]int64{}
	if len(linkIDs) > 0 {
		byDay, err = a.storage.CountClicksByDay(ctx, linkIDs, since, until)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate visit trends: %w", err)
		}
	}

	trend := make([]TrendPoint, 0, days)
	for day := 0; day < days; day++ {
		date := since.AddDate(0, 0, day).Format("2006-01-02")
		trend = append(trend, TrendPoint{Date: date, Visits: byDay[date]})
	}

	return trend, nil
}

// GetDeviceAnalytics breaks the scope's clicks down by device type derived
// from the recorded User-Agent.
func (a *Aggregator) GetDeviceAnalytics(ctx context.Context, scope domain.Scope) (map[string]int64, error) {
	linkIDs, err := a.scopeLinkIDs(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(linkIDs) == 0 {
		return map[string]int64{}, nil
	}

	devices, err := a.storage.CountClicksByDevice(ctx, linkIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate devices: %w", err)
	}

	return devices, nil
}

// TopReferrersByLink computes the list-view projection: up to limit top
// sources per link.
func (a *Aggregator) TopReferrersByLink(ctx context.Context, links []*domain.TrackingLink, limit int) (map[int64][]domain.SourceCount, error) {
	linkIDs := make([]int64, 0, len(links))
	for _, link := range links {
		linkIDs = append(linkIDs, link.ID)
	}
	if len(linkIDs) == 0 {
		return map[int64][]domain.SourceCount{}, nil
	}

	top, err := a.storage.TopSourcesByLink(ctx, linkIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top referrers: %w", err)
	}

	return top, nil
}

func (a *Aggregator) scopeLinkIDs(ctx context.Context, scope domain.Scope) ([]int64, error) {
	links, err := a.storage.ListLinksByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load scope links: %w", err)
	}

	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ID)
	}
	return ids, nil
}

func filterID(ids []int64, keep int64) []int64 {
	for _, id := range ids {
		if id == keep {
			return []int64{keep}
		}
	}
	return nil
}
