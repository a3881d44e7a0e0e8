package scheduler

import (
	"context"
	"time"
)

// Processor hands a batch to the downstream dependency. The worker calls it for one batch
// at a time and does not dispatch another batch until it returns.
type Processor interface {
	Process(ctx context.Context, b *Batch) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, b *Batch) error

func (f ProcessorFunc) Process(ctx context.Context, b *Batch) error {
	return f(ctx, b)
}

// DelayProcessor stands in for a downstream that accepts one call per fixed interval.
type DelayProcessor struct {
	delay time.Duration
}

func NewDelayProcessor(delay time.Duration) *DelayProcessor {
	return &DelayProcessor{delay: delay}
}

// Process holds for the configured delay. The worker never cancels the context it passes,
// so under the worker the hold always runs in full.
func (p *DelayProcessor) Process(ctx context.Context, _ *Batch) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
