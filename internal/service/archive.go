package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
	"github.com/timmy/ingestq/internal/storage"
)

// HistorySource returns the recorded events of an ingestion. Implemented by JournalService.
type HistorySource interface {
	History(ctx context.Context, ingestionID string) ([]domain.BatchEvent, error)
}

// CompletionReport is the archived summary of a finished ingestion.
type CompletionReport struct {
	IngestionID string              `json:"ingestion_id"`
	Priority    domain.Priority     `json:"priority"`
	Status      domain.Status       `json:"status"`
	CompletedAt time.Time           `json:"completed_at"`
	Events      []domain.BatchEvent `json:"events"`
}

// ReportArchiver writes a CompletionReport to object storage when an ingestion completes.
type ReportArchiver struct {
	store   storage.ObjectStorage
	history HistorySource
	prefix  string
	wg      sync.WaitGroup
}

// NewReportArchiver creates an archiver writing under prefix.
func NewReportArchiver(store storage.ObjectStorage, history HistorySource, prefix string) *ReportArchiver {
	return &ReportArchiver{
		store:   store,
		history: history,
		prefix:  prefix,
	}
}

// ReportKey returns the object key of an ingestion's report: prefix/yyyy/mm/dd/id.json.
func ReportKey(prefix, ingestionID string, completedAt time.Time) string {
	return path.Join(prefix, completedAt.UTC().Format("2006/01/02"), ingestionID+".json")
}

// BatchTransitioned implements scheduler.Observer. The upload runs in the background.
func (a *ReportArchiver) BatchTransitioned(ctx context.Context, ev domain.BatchEvent) {
	if ev.Status != domain.StatusCompleted || ev.IngestionStatus != domain.StatusCompleted {
		return
	}

	archiveCtx := logger.FromContext(ctx).WithContext(context.Background())
	archiveCtx = logger.SetComponent(archiveCtx, "archive")

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		key, err := a.archive(archiveCtx, ev)
		if err != nil {
			logger.CtxWarn(archiveCtx, "Failed to archive completion report: %v", err)
			return
		}
		logger.CtxInfo(archiveCtx, "Completion report archived: key=%s", key)
	}()
}

func (a *ReportArchiver) archive(ctx context.Context, ev domain.BatchEvent) (string, error) {
	events, err := a.history.History(ctx, ev.IngestionID)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(CompletionReport{
		IngestionID: ev.IngestionID,
		Priority:    ev.Priority,
		Status:      domain.StatusCompleted,
		CompletedAt: ev.OccurredAt,
		Events:      events,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := ReportKey(a.prefix, ev.IngestionID, ev.OccurredAt)
	if err := a.store.Put(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// Wait blocks until every upload started so far has finished.
func (a *ReportArchiver) Wait() {
	a.wg.Wait()
}
