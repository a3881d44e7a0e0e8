package repository

import (
	"context"

	"github.com/timmy/ingestq/internal/domain"
	"gorm.io/gorm"
)

// EventRepository appends and reads batch status transitions.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create appends one event.
func (r *EventRepository) Create(ctx context.Context, ev *domain.BatchEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

// ListByIngestion returns the events of an ingestion in the order they were recorded.
func (r *EventRepository) ListByIngestion(ctx context.Context, ingestionID string) ([]domain.BatchEvent, error) {
	var events []domain.BatchEvent
	err := r.db.WithContext(ctx).
		Where("ingestion_id = ?", ingestionID).
		Order("occurred_at ASC").
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CountByStatus returns how many transitions into each status were recorded.
func (r *EventRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	var rows []struct {
		Status domain.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.BatchEvent{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
