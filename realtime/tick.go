package realtime

import (
	"context"
	"log"
)

// tickLoop is the main tick execution loop
func (rt *Runtime) tickLoop() {
	defer close(rt.stopped)

	for {
		select {
		case <-rt.tickCtx.Done():
			return
		case <-rt.ticker.C:
			rt.safeTick()
			if rt.maxSteps > 0 && rt.GetTickNumber() >= rt.maxSteps {
				close(rt.done)
				return
			}
		}
	}
}

// safeTick runs one tick, logging instead of crashing on panic.
func (rt *Runtime) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("realtime: run %s: tick %d panicked: %v", rt.runID, rt.GetTickNumber(), r)
		}
	}()
	rt.processTick(rt.tickCtx)
}

// processTick advances the network once and publishes the row.
// Publishing happens under the lock so rows leave in tick order.
func (rt *Runtime) processTick(ctx context.Context) Row {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	bits := rt.net.Advance()
	rt.tickNum++
	row := Row{RunID: rt.runID, Tick: rt.tickNum, Bits: bits}

	if err := rt.publisher.Publish(ctx, row); err != nil && ctx.Err() == nil {
		log.Printf("realtime: run %s: publish tick %d: %v", rt.runID, row.Tick, err)
	}
	return row
}
