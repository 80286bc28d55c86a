package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/comalice/rbn"
)

func seededNetwork(t *testing.T, seed uint64) *rbn.Network {
	t.Helper()
	net, err := rbn.New(16, 2, 0.5, rbn.WithSeed(seed))
	if err != nil {
		t.Fatalf("Failed to create network: %v", err)
	}
	if err := net.RandomizeState(0.5); err != nil {
		t.Fatalf("Failed to randomize: %v", err)
	}
	return net
}

func equalRows(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestRuntimeCreation tests basic runtime creation
func TestRuntimeCreation(t *testing.T) {
	rt := NewRuntime(seededNetwork(t, 1), Config{})

	if rt == nil {
		t.Fatal("Runtime is nil")
	}
	if rt.tickRate != 100*time.Millisecond {
		t.Errorf("Expected default tick rate 100ms, got %v", rt.tickRate)
	}
	if rt.publisher == nil {
		t.Error("Expected default publisher")
	}
	if rt.RunID().String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected non-nil run ID")
	}
}

// TestStepMatchesAdvance checks that manual steps follow the network trajectory
func TestStepMatchesAdvance(t *testing.T) {
	replica := seededNetwork(t, 7)
	rt := NewRuntime(seededNetwork(t, 7), Config{})

	for i := 1; i <= 10; i++ {
		row := rt.Step()
		want := replica.Advance()
		if row.Tick != uint64(i) {
			t.Errorf("Expected tick %d, got %d", i, row.Tick)
		}
		if !equalRows(row.Bits, want) {
			t.Fatalf("Tick %d: expected %v, got %v", i, want, row.Bits)
		}
		if !equalRows(rt.Current(), want) {
			t.Fatalf("Tick %d: Current() disagrees with published row", i)
		}
	}
	if rt.GetTickNumber() != 10 {
		t.Errorf("Expected tick number 10, got %d", rt.GetTickNumber())
	}
}

// TestTickLoopPublishesInOrder runs to MaxSteps and checks every row arrives in order
func TestTickLoopPublishesInOrder(t *testing.T) {
	const steps = 5
	replica := seededNetwork(t, 3)
	rows := make(chan Row, steps)
	rt := NewRuntime(seededNetwork(t, 3), Config{
		TickRate:  2 * time.Millisecond,
		MaxSteps:  steps,
		Publisher: NewChannelPublisher(rows),
	})

	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start runtime: %v", err)
	}
	defer rt.Stop()

	select {
	case <-rt.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Runtime did not reach MaxSteps")
	}

	for i := 1; i <= steps; i++ {
		row := <-rows
		if row.Tick != uint64(i) {
			t.Errorf("Expected tick %d, got %d", i, row.Tick)
		}
		if row.RunID != rt.RunID() {
			t.Errorf("Row carries run ID %s, want %s", row.RunID, rt.RunID())
		}
		if want := replica.Advance(); !equalRows(row.Bits, want) {
			t.Errorf("Tick %d: expected %v, got %v", i, want, row.Bits)
		}
	}
	if rt.GetTickNumber() != steps {
		t.Errorf("Expected exactly %d ticks, got %d", steps, rt.GetTickNumber())
	}
}

// TestStartTwice verifies a runtime cannot be started again
func TestStartTwice(t *testing.T) {
	rt := NewRuntime(seededNetwork(t, 1), Config{TickRate: time.Hour})
	ctx := context.Background()
	if err := rt.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	if err := rt.Start(ctx); err != ErrAlreadyStarted {
		t.Errorf("Expected ErrAlreadyStarted, got %v", err)
	}
}

// TestStopIdempotent verifies Stop on unstarted and stopped runtimes
func TestStopIdempotent(t *testing.T) {
	rt := NewRuntime(seededNetwork(t, 1), Config{TickRate: time.Millisecond})
	if err := rt.Stop(); err != nil {
		t.Errorf("Stop before Start: %v", err)
	}
	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := rt.Stop(); err != nil {
		t.Errorf("First Stop: %v", err)
	}
	if err := rt.Stop(); err != nil {
		t.Errorf("Second Stop: %v", err)
	}
}

// TestContextCancelStopsLoop verifies the parent context ends the loop
func TestContextCancelStopsLoop(t *testing.T) {
	rt := NewRuntime(seededNetwork(t, 1), Config{TickRate: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	if err := rt.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()
	cancel()

	select {
	case <-rt.stopped:
	case <-time.After(time.Second):
		t.Fatal("Tick loop did not exit after context cancel")
	}
}

// TestPanicRecovery verifies a panicking publisher does not kill the loop
func TestPanicRecovery(t *testing.T) {
	var mu sync.Mutex
	var published []uint64
	pub := PublisherFunc(func(ctx context.Context, row Row) error {
		if row.Tick == 1 {
			panic("boom")
		}
		mu.Lock()
		published = append(published, row.Tick)
		mu.Unlock()
		return nil
	})

	rt := NewRuntime(seededNetwork(t, 1), Config{
		TickRate:  2 * time.Millisecond,
		MaxSteps:  3,
		Publisher: pub,
	})
	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	select {
	case <-rt.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Runtime stalled after panic")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(published) != 2 || published[0] != 2 || published[1] != 3 {
		t.Errorf("Expected ticks [2 3] after recovered panic, got %v", published)
	}
}

// TestChannelPublisherDrops verifies non-blocking drop on a full channel
func TestChannelPublisherDrops(t *testing.T) {
	ch := make(chan Row, 1)
	p := NewChannelPublisher(ch)
	ctx := context.Background()

	if err := p.Publish(ctx, Row{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	if err := p.Publish(ctx, Row{Tick: 2}); err != nil {
		t.Errorf("Expected silent drop, got %v", err)
	}
	if got := <-ch; got.Tick != 1 {
		t.Errorf("Expected first row kept, got tick %d", got.Tick)
	}

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-ch; ok {
		t.Error("Expected closed channel")
	}
}
