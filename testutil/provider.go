// Package testutil provides deterministic RandProvider doubles so network
// construction and randomization can be driven from fixed sequences.
package testutil

import "fmt"

// FixedProvider answers every RandomBool with Bool and every RandomDistinct
// with a copy of Distinct, whatever the arguments.
type FixedProvider struct {
	Bool     bool
	Distinct []int
}

func (p *FixedProvider) RandomBool(float64) bool {
	return p.Bool
}

func (p *FixedProvider) RandomDistinct(int, int) []int {
	return append([]int(nil), p.Distinct...)
}

// ScriptedProvider replays Bools and Wirings in order. Running past the end
// of either script panics so a test notices unexpected draws.
type ScriptedProvider struct {
	Bools   []bool
	Wirings [][]int

	BoolCalls     int
	DistinctCalls int
}

func (p *ScriptedProvider) RandomBool(float64) bool {
	if p.BoolCalls >= len(p.Bools) {
		panic(fmt.Sprintf("testutil: RandomBool call %d exceeds script of %d", p.BoolCalls+1, len(p.Bools)))
	}
	b := p.Bools[p.BoolCalls]
	p.BoolCalls++
	return b
}

func (p *ScriptedProvider) RandomDistinct(int, int) []int {
	if p.DistinctCalls >= len(p.Wirings) {
		panic(fmt.Sprintf("testutil: RandomDistinct call %d exceeds script of %d", p.DistinctCalls+1, len(p.Wirings)))
	}
	w := append([]int(nil), p.Wirings[p.DistinctCalls]...)
	p.DistinctCalls++
	return w
}

// Exhausted reports whether every scripted value has been consumed.
func (p *ScriptedProvider) Exhausted() bool {
	return p.BoolCalls == len(p.Bools) && p.DistinctCalls == len(p.Wirings)
}

// Provider is the method set shared with rbn.RandProvider.
type Provider interface {
	RandomBool(p float64) bool
	RandomDistinct(k, n int) []int
}

// Recorder forwards to an inner provider and records every answer so the
// same sequence can be replayed later with Replay.
type Recorder struct {
	Inner Provider

	bools   []bool
	wirings [][]int
}

func (r *Recorder) RandomBool(p float64) bool {
	b := r.Inner.RandomBool(p)
	r.bools = append(r.bools, b)
	return b
}

func (r *Recorder) RandomDistinct(k, n int) []int {
	w := r.Inner.RandomDistinct(k, n)
	r.wirings = append(r.wirings, append([]int(nil), w...))
	return w
}

// Replay returns a fresh ScriptedProvider over everything recorded so far.
func (r *Recorder) Replay() *ScriptedProvider {
	wirings := make([][]int, len(r.wirings))
	for i, w := range r.wirings {
		wirings[i] = append([]int(nil), w...)
	}
	return &ScriptedProvider{
		Bools:   append([]bool(nil), r.bools...),
		Wirings: wirings,
	}
}
