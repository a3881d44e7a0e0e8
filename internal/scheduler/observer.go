package scheduler

import (
	"context"

	"github.com/timmy/ingestq/internal/domain"
)

// Observer is told about every batch status transition, in dispatch order, from the
// worker goroutine. Implementations must return quickly; slow work belongs in a goroutine.
type Observer interface {
	BatchTransitioned(ctx context.Context, ev domain.BatchEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ev domain.BatchEvent)

func (f ObserverFunc) BatchTransitioned(ctx context.Context, ev domain.BatchEvent) {
	f(ctx, ev)
}
