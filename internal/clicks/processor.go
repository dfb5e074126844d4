package clicks

import (
	"LinkPulse-Backend/internal/domain"
	"LinkPulse-Backend/internal/repository"
	"LinkPulse-Backend/pkg/useragent"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ClickJob is one accepted click waiting to be persisted.
type ClickJob struct {
	LinkID           int64
	TrackingCode     string
	ClickedAt        time.Time
	ReferrerURL      string
	ReferrerSource   string
	ReferrerCategory string
	UserAgent        string
	IPAddress        *string
}

// Submitter accepts click jobs for asynchronous persistence. The redirect
// path depends on this interface so tests can substitute a synchronous fake.
type Submitter interface {
	Submit(job *ClickJob) error
}

// ProcessorConfig holds configuration for the click write pipeline.
type ProcessorConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	RetryAttempts   int           // Number of retry attempts for failed writes
	RetryDelay      time.Duration // Base delay between retries
	WriteTimeout    time.Duration // Per-attempt persistence timeout
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
}

// DefaultProcessorConfig returns sensible defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Processor persists click events off the redirect critical path. Writes
// are best-effort: a failed write is retried with backoff and eventually
// logged and dropped, never surfaced to the visitor.
type Processor struct {
	config   ProcessorConfig
	storage  repository.Storage
	uaParser *useragent.Parser
	log      *zap.Logger
	jobQueue chan *ClickJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
}

// NewProcessor creates a click processor.
func NewProcessor(storage repository.Storage, uaParser *useragent.Parser, log *zap.Logger, config ProcessorConfig) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		storage:  storage,
		uaParser: uaParser,
		log:      log,
		jobQueue: make(chan *ClickJob, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing click jobs.
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("processor already started")
	}

	p.log.Info("starting click processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
	)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop gracefully shuts down the processor, draining queued jobs.
func (p *Processor) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	p.log.Info("stopping click processor", zap.Int("queued", len(p.jobQueue)))

	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("click processor stopped gracefully")
	case <-time.After(p.config.ShutdownTimeout):
		p.cancel()
		p.log.Warn("click processor shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}

	p.cancel()
	p.started = false
	return nil
}

// Submit queues a click for persistence. A full queue drops the click
// rather than blocking the redirect.
func (p *Processor) Submit(job *ClickJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	select {
	case p.jobQueue <- job:
		return nil
	default:
		p.log.Error("click queue is full, dropping click",
			zap.String("tracking_code", job.TrackingCode),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		return fmt.Errorf("click queue is full")
	}
}

func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Debug("click worker started")

	for job := range p.jobQueue {
		p.persistWithRetry(log, job)
	}

	log.Debug("click worker stopped")
}

// persistWithRetry writes one click with bounded retries and exponential
// backoff.
func (p *Processor) persistWithRetry(log *zap.Logger, job *ClickJob) {
	var lastErr error

	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.config.WriteTimeout)
		err := p.persist(ctx, job)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info("click write succeeded after retry",
					zap.String("tracking_code", job.TrackingCode),
					zap.Int("attempt", attempt),
				)
			}
			return
		}

		// A vanished link is permanent; retrying cannot help.
		if err == repository.ErrLinkNotFound {
			log.Warn("click for deleted link dropped", zap.String("tracking_code", job.TrackingCode))
			return
		}

		lastErr = err
		if attempt == p.config.RetryAttempts {
			break
		}

		delay := p.config.RetryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-p.ctx.Done():
			log.Info("worker shutdown during retry delay")
			return
		}
	}

	log.Error("click write failed after all retries",
		zap.String("tracking_code", job.TrackingCode),
		zap.Int("attempts", p.config.RetryAttempts),
		zap.Error(lastErr),
	)
}

// persist builds the click event, classifying the device from the raw
// User-Agent, and writes it together with the counter increment.
func (p *Processor) persist(ctx context.Context, job *ClickJob) error {
	deviceType := "unknown"
	if p.uaParser != nil && job.UserAgent != "" {
		deviceType = p.uaParser.ParseUserAgent(job.UserAgent).DeviceType
	}

	event := &domain.ClickEvent{
		TrackingLinkID:   job.LinkID,
		TrackingCode:     job.TrackingCode,
		ClickedAt:        job.ClickedAt,
		ReferrerURL:      job.ReferrerURL,
		ReferrerSource:   job.ReferrerSource,
		ReferrerCategory: job.ReferrerCategory,
		UserAgent:        job.UserAgent,
		IPAddress:        job.IPAddress,
		DeviceType:       deviceType,
	}

	if err := p.storage.RecordClick(ctx, event); err != nil {
		if err == repository.ErrLinkNotFound {
			return err
		}
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

// Stats returns queue statistics for the metrics endpoint.
func (p *Processor) Stats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
	}
}
