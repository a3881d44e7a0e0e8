package scheduler

import (
	"context"
	"time"

	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
)

// Run is the batch worker: it pops the highest-priority batch, marks it triggered, holds
// it in the processor and marks it completed, one batch at a time, until ctx is cancelled.
// Only one Run may be active per Scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	ctx = logger.SetComponent(ctx, "batch_worker")
	logger.CtxInfo(ctx, "Batch worker started: batch_size=%d, processing_delay=%s, idle_poll_interval=%s",
		s.cfg.BatchSize, s.cfg.ProcessingDelay, s.cfg.IdlePollInterval)

	for {
		entry, ok := s.next(ctx)
		if !ok {
			logger.CtxInfo(ctx, "Batch worker stopped")
			return nil
		}
		s.dispatch(ctx, entry.batch)
	}
}

// next blocks until a batch is available or ctx is done.
func (s *Scheduler) next(ctx context.Context) (queueEntry, bool) {
	idle := time.NewTimer(s.cfg.IdlePollInterval)
	defer idle.Stop()

	for {
		if ctx.Err() != nil {
			return queueEntry{}, false
		}

		s.mu.Lock()
		entry, ok := s.queue.Pop()
		if ok {
			queueDepth.Set(float64(s.queue.Len()))
		}
		s.mu.Unlock()

		if ok {
			return entry, true
		}

		select {
		case <-ctx.Done():
			return queueEntry{}, false
		case <-s.wake:
		case <-idle.C:
		}
		idle.Reset(s.cfg.IdlePollInterval)
	}
}

// dispatch triggers b, holds it in the processor and completes it. The hold is not
// cancelled by ctx: a stopping worker finishes the batch in hand before it returns.
func (s *Scheduler) dispatch(ctx context.Context, b *Batch) {
	ctx = logger.SetBatchID(logger.SetIngestionID(ctx, b.IngestionID), b.ID)
	ctx = logger.WithField(ctx, logger.FieldPriority, b.Priority)

	if !b.advance(stageTriggered) {
		logger.CtxError(ctx, "Batch dequeued in unexpected state: status=%s", b.Status())
		return
	}
	dispatchedBatches.WithLabelValues(string(b.Priority)).Inc()
	logger.CtxInfo(ctx, "Batch triggered: items=%d", len(b.IDs))
	s.publish(ctx, b, domain.StatusTriggered)

	start := time.Now()
	err := s.processor.Process(context.WithoutCancel(ctx), b)
	elapsed := time.Since(start)

	if err != nil {
		// There is no downstream failure outcome; the batch still counts as done.
		logger.CtxWarn(ctx, "Batch processor returned error: error=%v", err)
	}

	b.advance(stageCompleted)
	batchProcessingSeconds.Observe(elapsed.Seconds())
	logger.With(logger.Fields{
		logger.FieldDurationMs: elapsed.Milliseconds(),
		logger.FieldStatus:     domain.StatusCompleted,
	}).Info(ctx, "Batch completed")
	s.publish(ctx, b, domain.StatusCompleted)
}

// publish reports a transition of b to every observer.
func (s *Scheduler) publish(ctx context.Context, b *Batch, status domain.Status) {
	if len(s.observers) == 0 {
		return
	}

	ev := domain.BatchEvent{
		IngestionID: b.IngestionID,
		BatchID:     b.ID,
		Priority:    b.Priority,
		Status:      status,
		OccurredAt:  s.now(),
	}
	if view, err := s.Status(ctx, b.IngestionID); err == nil {
		ev.IngestionStatus = view.Status
	}
	s.notify(ctx, ev)
}

// publishEmpty reports an ingestion without batches, which is complete on arrival.
// The event carries no batch ID.
func (s *Scheduler) publishEmpty(ctx context.Context, ing *Ingestion) {
	s.notify(ctx, domain.BatchEvent{
		IngestionID:     ing.ID,
		Priority:        ing.Priority,
		Status:          domain.StatusCompleted,
		IngestionStatus: domain.StatusCompleted,
		OccurredAt:      ing.CreatedAt,
	})
}

func (s *Scheduler) notify(ctx context.Context, ev domain.BatchEvent) {
	for _, o := range s.observers {
		o.BatchTransitioned(ctx, ev)
	}
}
