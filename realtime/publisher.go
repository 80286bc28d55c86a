package realtime

import (
	"context"

	"github.com/google/uuid"
)

// Row is one published network state.
type Row struct {
	RunID uuid.UUID
	Tick  uint64  // 1 for the first Advance of the run
	Bits  []uint8 // state vector aligned with node ids
}

// Publisher receives rows in tick order. Publish is called with the
// runtime's lock held and should not block for long.
type Publisher interface {
	Publish(ctx context.Context, row Row) error
}

// ChannelPublisher forwards rows to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- Row
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- Row) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, row Row) error {
	select {
	case p.ch <- row:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

// Close closes the output channel. Call it only after the runtime stopped.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, row Row) error

func (f PublisherFunc) Publish(ctx context.Context, row Row) error {
	return f(ctx, row)
}

type discard struct{}

func (discard) Publish(context.Context, Row) error { return nil }
