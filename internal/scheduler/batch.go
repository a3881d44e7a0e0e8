package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/timmy/ingestq/internal/domain"
)

// Batch lifecycle stages. Transitions only ever move one stage forward.
const (
	stagePending int32 = iota
	stageTriggered
	stageCompleted
)

var stageStatus = [...]domain.Status{
	stagePending:   domain.StatusYetToStart,
	stageTriggered: domain.StatusTriggered,
	stageCompleted: domain.StatusCompleted,
}

// Batch is a fixed-capacity chunk of one ingestion's work-item IDs.
// Everything but the status is immutable once the batch is created.
type Batch struct {
	ID          string
	IngestionID string
	Priority    domain.Priority
	IDs         []int

	stage atomic.Int32
}

// Status returns the current status. It is safe to call concurrently with the worker.
func (b *Batch) Status() domain.Status {
	return stageStatus[b.stage.Load()]
}

// advance moves the batch from the stage immediately before to into to.
// It reports false, and changes nothing, for any other transition.
func (b *Batch) advance(to int32) bool {
	return b.stage.CompareAndSwap(to-1, to)
}

// Ingestion is one client submission. Immutable after creation.
type Ingestion struct {
	ID        string
	Priority  domain.Priority
	CreatedAt time.Time
	BatchIDs  []string
}

// batchStore holds every batch created during the process lifetime.
type batchStore struct {
	batches map[string]*Batch
}

func newBatchStore() batchStore {
	return batchStore{batches: make(map[string]*Batch)}
}

func (s batchStore) put(b *Batch) {
	s.batches[b.ID] = b
}

func (s batchStore) get(id string) (*Batch, bool) {
	b, ok := s.batches[id]
	return b, ok
}

// ingestionStore holds every ingestion record created during the process lifetime.
type ingestionStore struct {
	ingestions map[string]*Ingestion
}

func newIngestionStore() ingestionStore {
	return ingestionStore{ingestions: make(map[string]*Ingestion)}
}

func (s ingestionStore) put(ing *Ingestion) {
	s.ingestions[ing.ID] = ing
}

func (s ingestionStore) get(id string) (*Ingestion, bool) {
	ing, ok := s.ingestions[id]
	return ing, ok
}
