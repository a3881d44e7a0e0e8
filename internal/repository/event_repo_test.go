package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/ingestq/internal/config"
	"github.com/timmy/ingestq/internal/domain"
)

func newTestRepo(t *testing.T) *EventRepository {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewEventRepository(db)
}

func TestEventRepository_ListByIngestionInOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	events := []domain.BatchEvent{
		{IngestionID: "ing-1", BatchID: "b1", Priority: domain.PriorityHigh, Status: domain.StatusTriggered, IngestionStatus: domain.StatusTriggered, OccurredAt: base},
		{IngestionID: "ing-2", BatchID: "b9", Priority: domain.PriorityLow, Status: domain.StatusTriggered, IngestionStatus: domain.StatusTriggered, OccurredAt: base.Add(time.Second)},
		{IngestionID: "ing-1", BatchID: "b1", Priority: domain.PriorityHigh, Status: domain.StatusCompleted, IngestionStatus: domain.StatusCompleted, OccurredAt: base.Add(2 * time.Second)},
	}
	for i := range events {
		require.NoError(t, repo.Create(ctx, &events[i]))
		assert.NotZero(t, events[i].ID)
	}

	got, err := repo.ListByIngestion(ctx, "ing-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.StatusTriggered, got[0].Status)
	assert.Equal(t, domain.StatusCompleted, got[1].Status)
	assert.Equal(t, domain.StatusCompleted, got[1].IngestionStatus)
	assert.True(t, got[1].OccurredAt.Equal(base.Add(2*time.Second)))

	none, err := repo.ListByIngestion(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Status]int64{
		domain.StatusTriggered: 2,
		domain.StatusCompleted: 1,
	}, counts)
}

func TestIsFilePath(t *testing.T) {
	assert.False(t, isFilePath(""))
	assert.False(t, isFilePath(":memory:"))
	assert.False(t, isFilePath("file::memory:?cache=shared"))
	assert.True(t, isFilePath("./data/journal.db"))
}
