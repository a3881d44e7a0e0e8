package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue_PopEmpty(t *testing.T) {
	var q priorityQueue
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Zero(t, q.Len())
}

func TestPriorityQueue_Order(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	t1 := t0.Add(time.Millisecond)

	// Listed in expected pop order.
	keys := []queueKey{
		{rank: 1, submittedAt: t1, seq: 9},
		{rank: 2, submittedAt: t0, seq: 5},
		{rank: 2, submittedAt: t0, seq: 6},
		{rank: 2, submittedAt: t1, seq: 1},
		{rank: 3, submittedAt: t0, seq: 2},
	}

	var q priorityQueue
	for _, i := range []int{3, 0, 4, 2, 1} {
		q.Push(queueEntry{key: keys[i], batch: &Batch{ID: string(rune('a' + i))}})
	}
	require.Equal(t, len(keys), q.Len())

	for i, want := range keys {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got.key, "pop %d", i)
		assert.Equal(t, string(rune('a'+i)), got.batch.ID)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestPriorityQueue_ManyEntriesPopSorted(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	rng := rand.New(rand.NewSource(1))

	var q priorityQueue
	for i, p := range rng.Perm(500) {
		q.Push(queueEntry{key: queueKey{
			rank:        1 + p%3,
			submittedAt: base.Add(time.Duration(p%7) * time.Second),
			seq:         uint64(i),
		}})
	}

	prev, ok := q.Pop()
	require.True(t, ok)
	for q.Len() > 0 {
		cur, _ := q.Pop()
		assert.True(t, prev.key.less(cur.key), "%+v popped before %+v", prev.key, cur.key)
		prev = cur
	}
}

func TestQueueKey_TotalOrder(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	a := queueKey{rank: 1, submittedAt: at, seq: 1}
	b := queueKey{rank: 1, submittedAt: at, seq: 2}

	assert.True(t, a.less(b))
	assert.False(t, b.less(a))
	assert.False(t, a.less(a))
}
