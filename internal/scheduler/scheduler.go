// Package scheduler releases submitted work to a rate-limited downstream processor
// one batch at a time, in priority order, and reports progress per ingestion.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
)

// Config holds the scheduler settings.
type Config struct {
	// BatchSize is the maximum number of work items per batch.
	BatchSize int
	// IdlePollInterval bounds how long an idle worker waits before re-checking the queue.
	// A push wakes it immediately.
	IdlePollInterval time.Duration
	// ProcessingDelay is the hold time of the default DelayProcessor.
	ProcessingDelay time.Duration
	// MaxQueueDepth caps the number of queued batches. 0 leaves the queue unbounded.
	MaxQueueDepth int
}

// DefaultConfig returns the stock settings: batches of 3, 100ms idle poll, 5s per batch.
func DefaultConfig() Config {
	return Config{
		BatchSize:        3,
		IdlePollInterval: 100 * time.Millisecond,
		ProcessingDelay:  5 * time.Second,
	}
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithProcessor replaces the default DelayProcessor.
func WithProcessor(p Processor) Option {
	return func(s *Scheduler) {
		s.processor = p
	}
}

// WithObserver registers an observer for batch status transitions.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observers = append(s.observers, o)
	}
}

// WithClock replaces time.Now as the source of submission and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// Scheduler owns the queue and the batch and ingestion stores.
// Submit and Status may be called from any goroutine; a single worker drains the queue.
type Scheduler struct {
	cfg       Config
	processor Processor
	observers []Observer
	now       func() time.Time

	// mu guards queue, batches, ingestions and seq.
	// Batch statuses are atomic and are written without it.
	mu         sync.RWMutex
	queue      priorityQueue
	batches    batchStore
	ingestions ingestionStore
	seq        uint64

	// wake has capacity 1; a pending signal is enough to rouse the worker.
	wake    chan struct{}
	running atomic.Bool

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates a Scheduler. Non-positive config values fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Scheduler {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.IdlePollInterval <= 0 {
		cfg.IdlePollInterval = def.IdlePollInterval
	}
	if cfg.ProcessingDelay <= 0 {
		cfg.ProcessingDelay = def.ProcessingDelay
	}
	if cfg.MaxQueueDepth < 0 {
		cfg.MaxQueueDepth = 0
	}

	s := &Scheduler{
		cfg:        cfg,
		now:        time.Now,
		batches:    newBatchStore(),
		ingestions: newIngestionStore(),
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.processor == nil {
		s.processor = NewDelayProcessor(cfg.ProcessingDelay)
	}
	return s
}

// Submit splits ids into batches of at most BatchSize items and queues them under priority.
// The ingestion and all of its batches become visible together; the returned ID can be
// queried immediately.
func (s *Scheduler) Submit(ctx context.Context, ids []int, priority domain.Priority) (string, error) {
	if !priority.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	chunks := partition(ids, s.cfg.BatchSize)

	s.mu.Lock()
	if limit := s.cfg.MaxQueueDepth; limit > 0 && s.queue.Len()+len(chunks) > limit {
		depth := s.queue.Len()
		s.mu.Unlock()
		rejectedSubmissions.WithLabelValues(string(priority)).Inc()
		return "", fmt.Errorf("%w: %d batches queued, %d more requested, limit %d",
			ErrQueueFull, depth, len(chunks), limit)
	}

	ing := &Ingestion{
		ID:        uuid.New().String(),
		Priority:  priority,
		CreatedAt: s.now(),
		BatchIDs:  make([]string, 0, len(chunks)),
	}
	for _, chunk := range chunks {
		s.seq++
		b := &Batch{
			ID:          uuid.New().String(),
			IngestionID: ing.ID,
			Priority:    priority,
			IDs:         chunk,
		}
		s.batches.put(b)
		s.queue.Push(queueEntry{
			key:   queueKey{rank: priority.Rank(), submittedAt: ing.CreatedAt, seq: s.seq},
			batch: b,
		})
		ing.BatchIDs = append(ing.BatchIDs, b.ID)
	}
	s.ingestions.put(ing)
	depth := s.queue.Len()
	queueDepth.Set(float64(depth))
	s.mu.Unlock()

	s.signal()
	submissions.WithLabelValues(string(priority)).Inc()
	if len(chunks) == 0 {
		s.publishEmpty(ctx, ing)
	}

	logger.With(logger.Fields{
		logger.FieldIngestionID: ing.ID,
		logger.FieldPriority:    priority,
		logger.FieldCount:       len(chunks),
	}).Info(ctx, "Ingestion queued: items=%d, batches=%d, queue_depth=%d", len(ids), len(chunks), depth)

	return ing.ID, nil
}

// Status returns the current view of an ingestion, or ErrNotFound.
func (s *Scheduler) Status(ctx context.Context, ingestionID string) (*domain.IngestionStatus, error) {
	s.mu.RLock()
	ing, ok := s.ingestions.get(ingestionID)
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ingestionID)
	}
	batches := make([]*Batch, 0, len(ing.BatchIDs))
	for _, id := range ing.BatchIDs {
		if b, ok := s.batches.get(id); ok {
			batches = append(batches, b)
		}
	}
	s.mu.RUnlock()

	return aggregate(ing, batches), nil
}

// QueueDepth returns the number of batches waiting to be dispatched.
func (s *Scheduler) QueueDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Len()
}

// Start runs the worker loop in a background goroutine until Stop is called or ctx ends.
// Calling Start on a started Scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		if err := s.Run(ctx); err != nil {
			logger.CtxError(ctx, "Batch worker exited: error=%v", err)
		}
	}()
}

// Stop cancels the worker started by Start and waits for it to return.
// A batch already in processing is held to the end and completed first.
func (s *Scheduler) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// partition splits ids into consecutive chunks of at most size items, copying them.
func partition(ids []int, size int) [][]int {
	chunks := make([][]int, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, append([]int(nil), ids[start:end]...))
	}
	return chunks
}
