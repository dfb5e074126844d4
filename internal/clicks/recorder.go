package clicks

import (
	"LinkPulse-Backend/internal/referrer"
	"LinkPulse-Backend/internal/repository"
	"context"
	"time"

	"go.uber.org/zap"
)

// Visit carries the request-side context of one redirect hit.
type Visit struct {
	ReferrerURL string
	UserAgent   string
	IPAddress   string
}

// clientKey identifies one browser/client for deduplication purposes.
// It is a heuristic: IP plus User-Agent is close enough to "same client"
// for suppressing double-invocations of a single navigation.
func (v Visit) clientKey() string {
	return v.IPAddress + "|" + v.UserAgent
}

// Recorder is the redirect-time write path: it resolves the tracking code,
// suppresses near-simultaneous repeats, classifies the referrer and hands
// the click to the async write pipeline. Resolution is the only step on
// the visitor's critical path.
type Recorder struct {
	storage   repository.Storage
	dedup     *Deduper
	submitter Submitter
	log       *zap.Logger
}

// NewRecorder creates a click recorder.
func NewRecorder(storage repository.Storage, dedup *Deduper, submitter Submitter, log *zap.Logger) *Recorder {
	return &Recorder{
		storage:   storage,
		dedup:     dedup,
		submitter: submitter,
		log:       log,
	}
}

// RecordClick resolves a tracking code to its destination URL, recording
// the click as a side effect. An unknown code returns
// repository.ErrLinkNotFound; every other failure mode degrades to
// "redirect succeeds, analytics incomplete".
func (r *Recorder) RecordClick(ctx context.Context, code string, visit Visit) (string, error) {
	link, err := r.storage.GetLinkByCode(ctx, code)
	if err != nil {
		return "", err
	}

	if !r.dedup.Allow(code + "\x00" + visit.clientKey()) {
		r.log.Debug("duplicate click suppressed", zap.String("tracking_code", code))
		return link.DestinationURL, nil
	}

	classification := referrer.Classify(visit.ReferrerURL)

	job := &ClickJob{
		LinkID:           link.ID,
		TrackingCode:     link.TrackingCode,
		ClickedAt:        time.Now().UTC(),
		ReferrerURL:      visit.ReferrerURL,
		ReferrerSource:   classification.Source,
		ReferrerCategory: classification.Category,
		UserAgent:        visit.UserAgent,
	}
	if visit.IPAddress != "" {
		ip := visit.IPAddress
		job.IPAddress = &ip
	}

	// Best-effort: a rejected submission loses one data point, never the
	// visitor's navigation.
	if err := r.submitter.Submit(job); err != nil {
		r.log.Warn("failed to submit click for recording",
			zap.String("tracking_code", code),
			zap.Error(err))
	}

	return link.DestinationURL, nil
}
