// Package realtime drives a network at a fixed tick rate.
//
// Each tick performs exactly one synchronous Advance and hands the new row
// to a Publisher. Ticks are strictly sequential: tick n+1 never starts
// before tick n has been published.
//
// # Example Usage
//
//	net, _ := rbn.New(64, 2, 0.5)
//	_ = net.RandomizeState(0.5)
//
//	rows := make(chan realtime.Row, 64)
//	rt := realtime.NewRuntime(net, realtime.Config{
//		TickRate:  50 * time.Millisecond,
//		MaxSteps:  100,
//		Publisher: realtime.NewChannelPublisher(rows),
//	})
//	rt.Start(ctx)
//	defer rt.Stop()
//
// # Ownership
//
// The runtime takes ownership of the network. All access goes through the
// runtime's mutex, so Step, Current and the tick loop may be called from
// different goroutines. Callers must not touch the network directly after
// handing it over.
//
// # Trade-offs vs calling Advance directly
//
// Fixed pacing suits an interactive shell that renders one row per frame.
// For batch analysis, call Advance in a loop instead; the runtime adds a
// ticker wait per step and nothing else.
package realtime
