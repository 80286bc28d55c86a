package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/rbn"
)

// Runtime advances an owned network once per tick and publishes each row.
type Runtime struct {
	net   *rbn.Network
	runID uuid.UUID

	// Tick-specific fields
	tickRate  time.Duration // e.g., 100ms for 10 rows per second
	maxSteps  uint64        // 0 = unbounded
	publisher Publisher
	ticker    *time.Ticker
	tickNum   uint64
	mu        sync.Mutex

	// Control
	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
	done       chan struct{}
}

// Config configures the runtime
type Config struct {
	TickRate  time.Duration // Fixed tick rate (default: 100ms)
	MaxSteps  uint64        // Stop after this many ticks (default: 0, unbounded)
	Publisher Publisher     // Receives every row (default: discard)
}

// ErrAlreadyStarted is returned by Start on a runtime that has been started.
var ErrAlreadyStarted = errors.New("runtime already started")

// NewRuntime creates a runtime that owns net.
func NewRuntime(net *rbn.Network, cfg Config) *Runtime {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 100 * time.Millisecond
	}
	if cfg.Publisher == nil {
		cfg.Publisher = discard{}
	}

	return &Runtime{
		net:       net,
		runID:     uuid.New(),
		tickRate:  cfg.TickRate,
		maxSteps:  cfg.MaxSteps,
		publisher: cfg.Publisher,
		stopped:   make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start begins tick-based execution
func (rt *Runtime) Start(ctx context.Context) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.tickCtx != nil {
		return ErrAlreadyStarted
	}

	rt.tickCtx, rt.tickCancel = context.WithCancel(ctx)
	rt.ticker = time.NewTicker(rt.tickRate)

	go rt.tickLoop()

	return nil
}

// Stop halts the tick loop and waits for it to exit. It is safe to call
// more than once and on a runtime that was never started.
func (rt *Runtime) Stop() error {
	rt.mu.Lock()
	cancel, ticker := rt.tickCancel, rt.ticker
	rt.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	ticker.Stop()

	// Wait for tick loop to exit
	<-rt.stopped
	return nil
}

// Done is closed once MaxSteps ticks have been processed.
func (rt *Runtime) Done() <-chan struct{} {
	return rt.done
}

// Step processes one tick immediately, independent of the ticker.
func (rt *Runtime) Step() Row {
	return rt.processTick(context.Background())
}

// GetTickNumber returns the current tick count
func (rt *Runtime) GetTickNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tickNum
}

// Current returns the network's current state vector.
func (rt *Runtime) Current() []uint8 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.net.State()
}

// RunID identifies this runtime in every published Row.
func (rt *Runtime) RunID() uuid.UUID {
	return rt.runID
}
