package service

import (
	"context"
	"fmt"

	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
)

// EventStore persists batch events. Implemented by repository.EventRepository.
type EventStore interface {
	Create(ctx context.Context, ev *domain.BatchEvent) error
	ListByIngestion(ctx context.Context, ingestionID string) ([]domain.BatchEvent, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
}

// JournalService records every batch transition reported by the scheduler.
type JournalService struct {
	store EventStore
}

// NewJournalService creates a new journal service.
func NewJournalService(store EventStore) *JournalService {
	return &JournalService{store: store}
}

// BatchTransitioned appends the event to the store. A failed write is logged and dropped;
// the journal never holds up dispatching.
func (j *JournalService) BatchTransitioned(ctx context.Context, ev domain.BatchEvent) {
	if err := j.store.Create(ctx, &ev); err != nil {
		logger.FromContext(ctx).WithError(err).Warnf("Failed to journal batch event: status=%s", ev.Status)
	}
}

// History returns the recorded events of an ingestion, oldest first.
func (j *JournalService) History(ctx context.Context, ingestionID string) ([]domain.BatchEvent, error) {
	events, err := j.store.ListByIngestion(ctx, ingestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Counts returns how many transitions into each status have been recorded.
func (j *JournalService) Counts(ctx context.Context) (map[domain.Status]int64, error) {
	counts, err := j.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	return counts, nil
}
