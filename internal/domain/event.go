package domain

import "time"

// BatchEvent records one status transition of a batch, together with the
// aggregated status of its ingestion right after the transition.
type BatchEvent struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	IngestionID     string    `gorm:"type:text;not null;index:idx_batch_events_ingestion" json:"ingestion_id"`
	BatchID         string    `gorm:"type:text;not null" json:"batch_id"`
	Priority        Priority  `gorm:"type:text;not null" json:"priority"`
	Status          Status    `gorm:"type:text;not null" json:"status"`
	IngestionStatus Status    `gorm:"type:text;not null" json:"ingestion_status"`
	OccurredAt      time.Time `gorm:"not null;index:idx_batch_events_ingestion" json:"occurred_at"`
}

// TableName returns the database table name for BatchEvent.
func (BatchEvent) TableName() string {
	return "batch_events"
}
