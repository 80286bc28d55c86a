// Command rbn runs a Random Boolean Network and prints its history grid,
// one row per step.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/rbn"
	"github.com/comalice/rbn/internal/analysis"
	"github.com/comalice/rbn/internal/config"
	"github.com/comalice/rbn/realtime"
)

const (
	onCell  = '#'
	offCell = '.'
)

func main() {
	def := config.Default()
	configPath := flag.String("config", "", "path to YAML or JSON run config (flags override it)")
	n := flag.Int("n", def.N, "number of nodes")
	k := flag.Int("k", def.K, "inputs per node")
	p := flag.Float64("p", def.Bias, "probability a truth-table entry is true")
	activation := flag.Float64("activation", def.Activation, "probability a node starts active")
	steps := flag.Int("steps", def.Steps, "number of steps to run")
	seed := flag.Uint64("seed", 0, "random seed (0 = entropy)")
	workers := flag.Int("workers", def.Workers, "goroutines per step")
	live := flag.Bool("realtime", false, "pace output with the tick runtime")
	tick := flag.Duration("tick", def.TickRate, "tick rate for -realtime")
	attractor := flag.Bool("attractor", false, "report the attractor after the run")
	flag.Parse()

	cfg := def
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fail(err)
		}
		cfg = loaded
	}
	// Explicit flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.N = *n
		case "k":
			cfg.K = *k
		case "p":
			cfg.Bias = *p
		case "activation":
			cfg.Activation = *activation
		case "steps":
			cfg.Steps = *steps
		case "seed":
			cfg.Seed = *seed
		case "workers":
			cfg.Workers = *workers
		case "tick":
			cfg.TickRate = *tick
		}
	})

	net, err := cfg.Build()
	if err != nil {
		fail(err)
	}
	fmt.Fprintf(os.Stderr, "N=%d K=%d p=%.3f regime=%s\n",
		cfg.N, cfg.K, cfg.Bias, analysis.Classify(cfg.K, cfg.Bias))

	fmt.Print(analysis.Render(analysis.Trajectory{net.State()}, onCell, offCell))
	if *live {
		runRealtime(net, cfg)
	} else {
		traj, err := analysis.Record(net, cfg.Steps)
		if err != nil {
			fail(err)
		}
		fmt.Print(analysis.Render(traj[1:], onCell, offCell))
	}

	if *attractor {
		limit := max(cfg.Steps, 1) * 100
		att, err := analysis.FindAttractor(net, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "attractor: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "attractor: transient=%d period=%d\n", att.Transient, att.Period)
	}
}

// runRealtime streams rows from the tick runtime until Steps rows have been
// printed or the process is interrupted. The runtime is stopped on return,
// so the caller owns net again.
func runRealtime(net *rbn.Network, cfg config.Config) {
	if cfg.Steps == 0 {
		return
	}
	rows := make(chan realtime.Row, 64)
	rt := realtime.NewRuntime(net, realtime.Config{
		TickRate:  cfg.TickRate,
		MaxSteps:  uint64(cfg.Steps),
		Publisher: realtime.NewChannelPublisher(rows),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rt.Start(ctx); err != nil {
		log.Fatalf("start runtime: %v", err)
	}
	defer rt.Stop()

	stall := 10*cfg.TickRate + time.Second
	for printed := 0; printed < cfg.Steps; printed++ {
		select {
		case row := <-rows:
			fmt.Print(analysis.Render(analysis.Trajectory{row.Bits}, onCell, offCell))
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
			return
		case <-time.After(stall):
			log.Printf("realtime: no row for %s, stopping", stall)
			return
		}
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "rbn:", err)
	if errors.Is(err, rbn.ErrInvalidParameters) {
		os.Exit(2)
	}
	os.Exit(1)
}
