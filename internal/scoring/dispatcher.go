// Package scoring fans out image quality calls and routes each result back to
// the slot it was submitted for.
package scoring

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm"
	"github.com/joseph-ayodele/sourcing-assistant/internal/metrics"
)

// Sink receives finished results. Unknown slot IDs must be ignored by the sink.
type Sink interface {
	ApplyQuality(slotID string, q entity.QualityResult)
}

type Dispatcher struct {
	scorer  llm.ImageScorer
	sink    Sink
	logger  *slog.Logger
	metrics *metrics.SessionMetrics
	timeout time.Duration

	wg sync.WaitGroup

	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Dispatcher)

// WithCallTimeout bounds each scoring call. Zero leaves it to the collaborator.
func WithCallTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

func WithMetrics(m *metrics.SessionMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(scorer llm.ImageScorer, sink Sink, logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		scorer: scorer,
		sink:   sink,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Submit starts one independent scoring call for the slot. Calls are not
// throttled and complete in any order. It reports false once Shutdown began.
func (d *Dispatcher) Submit(slotID string, img entity.EncodedImage) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("scoring.submit.rejected", "slot_id", slotID, "reason", "shutting down")
		return false
	}
	d.wg.Add(1)
	d.metrics.ScoringStarted()
	go d.run(slotID, img)
	return true
}

func (d *Dispatcher) run(slotID string, img entity.EncodedImage) {
	defer d.wg.Done()
	start := time.Now()

	ctx := common.WithSlotID(d.ctx, slotID)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	qs, err := d.scorer.ScoreImage(ctx, img)
	if err != nil {
		d.logger.Warn("scoring.call.failed", "slot_id", slotID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		d.metrics.ScoringFinished(metrics.OutcomeError)
		d.sink.ApplyQuality(slotID, entity.FailedQuality())
		return
	}

	d.logger.Info("scoring.call.ok",
		"slot_id", slotID,
		"score", qs.QualityScore,
		"rating", qs.QualityRating,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	d.metrics.ScoringFinished(metrics.OutcomeSuccess)
	d.sink.ApplyQuality(slotID, qs.ToResult())
}

// Wait blocks until every submitted call has delivered its result.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown stops accepting work and waits for outstanding calls. When ctx
// ends first the remaining calls are cancelled; they still report to the sink
// as failed.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); d.wg.Wait() }()

	select {
	case <-done:
		d.logger.Info("scoring.shutdown.drained")
	case <-ctx.Done():
		d.logger.Warn("scoring.shutdown.interrupted")
		d.cancel()
		<-done
	}
	d.cancel()
}
