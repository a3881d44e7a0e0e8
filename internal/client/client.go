// Package client talks to the ingestq HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/ingestq/internal/domain"
)

// ErrNotFound is returned when the server does not know the ingestion.
var ErrNotFound = errors.New("ingestion not found")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Config holds configuration for the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a thin wrapper over the ingest endpoints.
type Client struct {
	http *resty.Client
}

type errorBody struct {
	Error string `json:"error"`
}

type submitRequest struct {
	IDs      []int           `json:"ids"`
	Priority domain.Priority `json:"priority"`
}

type submitResponse struct {
	IngestionID string `json:"ingestion_id"`
}

type eventsResponse struct {
	IngestionID string              `json:"ingestion_id"`
	Events      []domain.BatchEvent `json:"events"`
}

// New creates a client for cfg.BaseURL.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := resty.New()
	c.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	c.SetHeader("Accept", "application/json")
	c.SetTimeout(timeout)

	return &Client{http: c}
}

// Submit queues ids under priority and returns the ingestion ID.
func (c *Client) Submit(ctx context.Context, ids []int, priority domain.Priority) (string, error) {
	if ids == nil {
		ids = []int{}
	}

	var out submitResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(submitRequest{IDs: ids, Priority: priority}).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/api/v1/ingest")
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	return out.IngestionID, nil
}

// Status fetches the progress of an ingestion.
func (c *Client) Status(ctx context.Context, ingestionID string) (*domain.IngestionStatus, error) {
	var out domain.IngestionStatus
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", ingestionID).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/api/v1/status/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Events fetches the dispatch history of an ingestion.
func (c *Client) Events(ctx context.Context, ingestionID string) ([]domain.BatchEvent, error) {
	var out eventsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", ingestionID).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/api/v1/status/{id}/events")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}

	msg := resp.String()
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}
