package domain

import "time"

// Status is the processing state of a batch, and the aggregated state of an ingestion.
// Values include StatusYetToStart, StatusTriggered, and StatusCompleted.
type Status string

const (
	StatusYetToStart Status = "yet_to_start"
	StatusTriggered  Status = "triggered"
	StatusCompleted  Status = "completed"
)

// BatchStatus is the read view of a single batch.
type BatchStatus struct {
	BatchID string `json:"batch_id"`
	IDs     []int  `json:"ids"`
	Status  Status `json:"status"`
}

// IngestionStatus is the read view of an ingestion and its batches in creation order.
type IngestionStatus struct {
	IngestionID string        `json:"ingestion_id"`
	Status      Status        `json:"status"`
	Priority    Priority      `json:"priority"`
	CreatedAt   time.Time     `json:"created_at"`
	Batches     []BatchStatus `json:"batches"`
}
