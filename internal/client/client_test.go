package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/ingestq/internal/api"
	"github.com/timmy/ingestq/internal/config"
	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
	"github.com/timmy/ingestq/internal/scheduler"
	"github.com/timmy/ingestq/internal/service"
)

func newTestClient(t *testing.T, cfg scheduler.Config) *Client {
	t.Helper()
	sched := scheduler.New(cfg)
	log := logger.New(&logger.EnvConfig{Level: "error", Output: io.Discard, Environment: "local"})
	router := api.SetupRouter(service.NewIngestService(sched, nil), &config.ServerConfig{Mode: "test"}, log)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(&Config{BaseURL: srv.URL + "/"})
}

func TestClient_SubmitAndStatus(t *testing.T) {
	c := newTestClient(t, scheduler.DefaultConfig())
	ctx := context.Background()

	id, err := c.Submit(ctx, []int{10, 20, 30, 40}, domain.PriorityMedium)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	st, err := c.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, st.IngestionID)
	assert.Equal(t, domain.StatusYetToStart, st.Status)
	require.Len(t, st.Batches, 2)
	assert.Equal(t, []int{40}, st.Batches[1].IDs)

	events, err := c.Events(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClient_SubmitNilIDs(t *testing.T) {
	c := newTestClient(t, scheduler.DefaultConfig())
	ctx := context.Background()

	id, err := c.Submit(ctx, nil, domain.PriorityLow)
	require.NoError(t, err)

	st, err := c.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, st.Status)
}

func TestClient_Errors(t *testing.T) {
	c := newTestClient(t, scheduler.Config{BatchSize: 1, MaxQueueDepth: 1})
	ctx := context.Background()

	_, err := c.Status(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Events(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Submit(ctx, []int{1}, domain.Priority("URGENT"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "priority")

	_, err = c.Submit(ctx, []int{1, 2}, domain.PriorityHigh)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
