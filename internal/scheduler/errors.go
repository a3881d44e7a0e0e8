package scheduler

import "errors"

var (
	// ErrNotFound is returned when an ingestion ID is unknown.
	ErrNotFound = errors.New("ingestion not found")

	// ErrInvalidPriority is returned when a submission carries an unknown priority.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrQueueFull is returned when a submission would exceed the configured queue depth.
	ErrQueueFull = errors.New("queue is full")

	// ErrAlreadyRunning is returned when a second worker loop is started on one Scheduler.
	ErrAlreadyRunning = errors.New("batch worker already running")
)
