package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/timmy/ingestq/internal/domain"
)

func TestBatch_TransitionsAreMonotonic(t *testing.T) {
	b := &Batch{ID: "b1"}
	assert.Equal(t, domain.StatusYetToStart, b.Status())

	assert.False(t, b.advance(stageCompleted), "pending must not skip to completed")
	assert.Equal(t, domain.StatusYetToStart, b.Status())

	assert.True(t, b.advance(stageTriggered))
	assert.False(t, b.advance(stageTriggered))
	assert.Equal(t, domain.StatusTriggered, b.Status())

	assert.True(t, b.advance(stageCompleted))
	assert.False(t, b.advance(stageCompleted))
	assert.False(t, b.advance(stageTriggered))
	assert.Equal(t, domain.StatusCompleted, b.Status())
}

func TestFoldStatus(t *testing.T) {
	const (
		p = domain.StatusYetToStart
		r = domain.StatusTriggered
		c = domain.StatusCompleted
	)

	tests := []struct {
		name     string
		statuses []domain.Status
		want     domain.Status
	}{
		{name: "no batches", statuses: nil, want: c},
		{name: "all pending", statuses: []domain.Status{p, p}, want: p},
		{name: "all completed", statuses: []domain.Status{c, c, c}, want: c},
		{name: "all triggered", statuses: []domain.Status{r}, want: r},
		{name: "pending and triggered", statuses: []domain.Status{r, p}, want: r},
		{name: "completed and pending", statuses: []domain.Status{c, p}, want: r},
		{name: "mixed", statuses: []domain.Status{c, r, p}, want: r},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, foldStatus(tt.statuses))
		})
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		size int
		want [][]int
	}{
		{name: "empty", ids: nil, size: 3, want: [][]int{}},
		{name: "single short chunk", ids: []int{1, 2}, size: 3, want: [][]int{{1, 2}}},
		{name: "exact", ids: []int{1, 2, 3, 4, 5, 6}, size: 3, want: [][]int{{1, 2, 3}, {4, 5, 6}}},
		{name: "remainder", ids: []int{1, 2, 3, 4, 5}, size: 3, want: [][]int{{1, 2, 3}, {4, 5}}},
		{name: "size one", ids: []int{7, 8}, size: 1, want: [][]int{{7}, {8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, partition(tt.ids, tt.size))
		})
	}
}

func TestPartition_CopiesInput(t *testing.T) {
	ids := []int{1, 2, 3, 4}
	chunks := partition(ids, 2)
	ids[0] = 99
	assert.Equal(t, []int{1, 2}, chunks[0])
}
