package service

import (
	"context"
	"fmt"

	"github.com/timmy/ingestq/internal/domain"
)

// Scheduler is the part of scheduler.Scheduler the API needs.
type Scheduler interface {
	Submit(ctx context.Context, ids []int, priority domain.Priority) (string, error)
	Status(ctx context.Context, ingestionID string) (*domain.IngestionStatus, error)
	QueueDepth() int
}

// IngestService is the entry point for the HTTP layer: it submits work, reports
// progress and serves the dispatch history of an ingestion.
type IngestService struct {
	scheduler Scheduler
	journal   *JournalService
}

// NewIngestService creates a new ingest service. journal may be nil, in which case
// event history is empty.
func NewIngestService(scheduler Scheduler, journal *JournalService) *IngestService {
	return &IngestService{
		scheduler: scheduler,
		journal:   journal,
	}
}

// Submit queues ids under priority and returns the ingestion ID.
func (s *IngestService) Submit(ctx context.Context, ids []int, priority domain.Priority) (string, error) {
	id, err := s.scheduler.Submit(ctx, ids, priority)
	if err != nil {
		return "", fmt.Errorf("failed to submit ingestion: %w", err)
	}
	return id, nil
}

// Status returns the current progress of an ingestion.
func (s *IngestService) Status(ctx context.Context, ingestionID string) (*domain.IngestionStatus, error) {
	return s.scheduler.Status(ctx, ingestionID)
}

// Events returns the dispatch history of a known ingestion.
func (s *IngestService) Events(ctx context.Context, ingestionID string) ([]domain.BatchEvent, error) {
	if _, err := s.scheduler.Status(ctx, ingestionID); err != nil {
		return nil, err
	}
	if s.journal == nil {
		return []domain.BatchEvent{}, nil
	}
	return s.journal.History(ctx, ingestionID)
}

// QueueDepth returns the number of batches waiting for dispatch.
func (s *IngestService) QueueDepth() int {
	return s.scheduler.QueueDepth()
}

// JournalCounts returns the recorded transitions per status. Without a journal it is empty.
func (s *IngestService) JournalCounts(ctx context.Context) (map[domain.Status]int64, error) {
	if s.journal == nil {
		return map[domain.Status]int64{}, nil
	}
	return s.journal.Counts(ctx)
}
