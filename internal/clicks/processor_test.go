package clicks

import (
	"LinkPulse-Backend/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testProcessorConfig() ProcessorConfig {
	cfg := DefaultProcessorConfig()
	cfg.WorkerCount = 2
	cfg.BufferSize = 16
	cfg.RetryAttempts = 2
	cfg.RetryDelay = 10 * time.Millisecond
	cfg.ShutdownTimeout = 5 * time.Second
	return cfg
}

func TestProcessor_PersistsQueuedClicks(t *testing.T) {
	storage := memory.New()
	link := newTestLink(t, storage, "abc123")

	p := NewProcessor(storage, nil, zap.NewNop(), testProcessorConfig())
	require.NoError(t, p.Start())

	for i := 0; i < 5; i++ {
		err := p.Submit(&ClickJob{
			LinkID:           link.ID,
			TrackingCode:     link.TrackingCode,
			ClickedAt:        time.Now().UTC(),
			ReferrerSource:   "Direct",
			ReferrerCategory: "direct",
		})
		require.NoError(t, err)
	}

	// Stop drains the queue before returning.
	require.NoError(t, p.Stop())

	assert.Equal(t, 5, storage.EventCount())

	got, err := storage.GetLinkByCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Visits)
}

func TestProcessor_SubmitBeforeStart(t *testing.T) {
	p := NewProcessor(memory.New(), nil, zap.NewNop(), testProcessorConfig())

	err := p.Submit(&ClickJob{TrackingCode: "abc123"})
	assert.Error(t, err)
}

func TestProcessor_DropsClickForDeletedLink(t *testing.T) {
	storage := memory.New()
	link := newTestLink(t, storage, "abc123")
	require.NoError(t, storage.DeleteLink(context.Background(), link.ID))

	p := NewProcessor(storage, nil, zap.NewNop(), testProcessorConfig())
	require.NoError(t, p.Start())

	require.NoError(t, p.Submit(&ClickJob{
		LinkID:       link.ID,
		TrackingCode: link.TrackingCode,
		ClickedAt:    time.Now().UTC(),
	}))
	require.NoError(t, p.Stop())

	// No retries, no event: the link is gone for good.
	assert.Equal(t, 0, storage.EventCount())
}

func TestProcessor_DoubleStart(t *testing.T) {
	p := NewProcessor(memory.New(), nil, zap.NewNop(), testProcessorConfig())
	require.NoError(t, p.Start())
	assert.Error(t, p.Start())
	require.NoError(t, p.Stop())
}

func TestProcessor_Stats(t *testing.T) {
	p := NewProcessor(memory.New(), nil, zap.NewNop(), testProcessorConfig())
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop() }()

	stats := p.Stats()
	assert.Equal(t, true, stats["started"])
	assert.Equal(t, 16, stats["queue_capacity"])
	assert.Equal(t, 2, stats["worker_count"])
}
