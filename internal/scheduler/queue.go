package scheduler

import (
	"container/heap"
	"fmt"
	"time"
)

// queueKey orders queued batches. seq is unique per Scheduler, so no two keys are equal.
type queueKey struct {
	rank        int
	submittedAt time.Time
	seq         uint64
}

func (k queueKey) less(o queueKey) bool {
	if k.rank != o.rank {
		return k.rank < o.rank
	}
	if !k.submittedAt.Equal(o.submittedAt) {
		return k.submittedAt.Before(o.submittedAt)
	}
	return k.seq < o.seq
}

// queueEntry pairs an ordering key with the batch it releases.
// The batch never takes part in comparisons.
type queueEntry struct {
	key   queueKey
	batch *Batch
}

// entryHeap implements heap.Interface over queue entries.
type entryHeap []queueEntry

func (h entryHeap) Len() int {
	return len(h)
}

func (h entryHeap) Less(i, j int) bool {
	return h[i].key.less(h[j].key)
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *entryHeap) Push(x interface{}) {
	entry, ok := x.(queueEntry)
	if !ok {
		panic(fmt.Sprintf("tried to push %+v of type %T onto entryHeap", x, x))
	}
	*h = append(*h, entry)
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = queueEntry{} // avoid memory leak
	*h = old[:n-1]
	return entry
}

// priorityQueue is a min-queue of pending batches.
// It is not safe for concurrent use; the Scheduler guards it with its mutex.
type priorityQueue struct {
	entries entryHeap
}

func (q *priorityQueue) Push(entry queueEntry) {
	heap.Push(&q.entries, entry)
}

// Pop removes the minimum entry. ok is false when the queue is empty.
func (q *priorityQueue) Pop() (entry queueEntry, ok bool) {
	if len(q.entries) == 0 {
		return queueEntry{}, false
	}
	return heap.Pop(&q.entries).(queueEntry), true
}

func (q *priorityQueue) Len() int {
	return len(q.entries)
}
