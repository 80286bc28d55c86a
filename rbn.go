// Package rbn implements a synchronous Random Boolean Network.
//
// A network has N boolean nodes. Each node reads the states of K distinct
// nodes (possibly itself) and maps them through a truth table fixed at
// construction. Advance applies every node's table to the same snapshot of
// the previous step, so all nodes update simultaneously.
//
//	net, err := rbn.New(20, 2, 0.5, rbn.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = net.RandomizeState(0.5)
//	for t := 0; t < 10; t++ {
//		row := net.Advance()
//		fmt.Println(row)
//	}
//
// All randomness comes from the RandProvider given at construction. The
// package never consults a global generator on its own.
package rbn

import (
	"fmt"
	"math"
	"slices"
	"sync"
)

// MaxK bounds the in-degree so a truth table stays addressable by a uint32
// key and fits in memory (2^24 entries per node).
const MaxK = 24

// minChunk is the smallest node range handed to a worker in a parallel step.
const minChunk = 256

// TruthTable maps a packed input key to a node's next state. Bit K-1 of the
// key holds the state of the node's first input and bit 0 the last, so
// entry i corresponds to the i-th vector in MSB-first binary counting order.
type TruthTable []bool

// Lookup returns the output for key and whether key is inside the table.
func (t TruthTable) Lookup(key uint32) (bool, bool) {
	if uint64(key) >= uint64(len(t)) {
		return false, false
	}
	return t[key], true
}

type node struct {
	id     int
	inputs []int
	table  TruthTable
	state  bool
}

// Network is a Random Boolean Network together with its current state
// vector. A Network is owned by a single goroutine; it is not safe for
// concurrent use.
type Network struct {
	n, k     int
	bias     float64
	nodes    []node
	provider RandProvider
	workers  int
	step     uint64
	snapshot []bool
}

// NodeView is a read-only copy of one node. Mutating it has no effect on
// the network.
type NodeView struct {
	ID       int
	InputIDs []int
	Table    TruthTable
	State    bool
}

// New builds a network of n nodes with in-degree k and truth-table bias p.
// Without WithProvider or WithSeed the network draws from NewEntropySource.
func New(n, k int, p float64, opts ...Option) (*Network, error) {
	cfg := &Network{workers: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.provider == nil {
		cfg.provider = NewEntropySource()
	}
	net, err := Build(n, k, p, cfg.provider)
	if err != nil {
		return nil, err
	}
	net.workers = cfg.workers
	return net, nil
}

// Build wires n nodes and samples their truth tables from provider. For
// each node in index order it draws the input ids first and then 2^k
// table entries in MSB-first order. All states start false.
func Build(n, k int, p float64, provider RandProvider) (*Network, error) {
	if err := validate(n, k, p); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, &ParamError{Param: "provider", Value: nil, Reason: "must not be nil"}
	}

	rows := 1 << k
	net := &Network{
		n:        n,
		k:        k,
		bias:     p,
		nodes:    make([]node, n),
		provider: provider,
		workers:  1,
		snapshot: make([]bool, n),
	}
	for i := range net.nodes {
		inputs := provider.RandomDistinct(k, n)
		if err := checkWiring(inputs, k, n); err != nil {
			return nil, &ParamError{Param: "provider", Value: fmt.Sprintf("node %d inputs %v", i, inputs), Reason: err.Error(), Err: ErrProviderContract}
		}
		table := make(TruthTable, rows)
		for key := range table {
			table[key] = provider.RandomBool(p)
		}
		net.nodes[i] = node{
			id:     i,
			inputs: slices.Clone(inputs),
			table:  table,
		}
	}
	return net, nil
}

func validate(n, k int, p float64) error {
	switch {
	case n < 0:
		return &ParamError{Param: "n", Value: n, Reason: "must be non-negative"}
	case k < 0:
		return &ParamError{Param: "k", Value: k, Reason: "must be non-negative"}
	case k > n:
		return &ParamError{Param: "k", Value: k, Reason: fmt.Sprintf("cannot draw %d distinct inputs from %d nodes", k, n)}
	case k > MaxK:
		return &ParamError{Param: "k", Value: k, Reason: fmt.Sprintf("exceeds maximum in-degree %d", MaxK)}
	}
	return checkProbability("p", p)
}

func checkProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return &ParamError{Param: name, Value: p, Reason: "must be within [0, 1]"}
	}
	return nil
}

func checkWiring(inputs []int, k, n int) error {
	if len(inputs) != k {
		return fmt.Errorf("got %d inputs, want %d", len(inputs), k)
	}
	seen := make(map[int]struct{}, k)
	for _, id := range inputs {
		if id < 0 || id >= n {
			return fmt.Errorf("input %d outside [0, %d)", id, n)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate input %d", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// RandomizeState overwrites every node's state with an independent draw
// that is true with probability activation. Truth tables are not consulted.
func (net *Network) RandomizeState(activation float64) error {
	if err := checkProbability("activation", activation); err != nil {
		return err
	}
	for i := range net.nodes {
		net.nodes[i].state = net.provider.RandomBool(activation)
	}
	return nil
}

// Advance performs one synchronous update and returns the new state vector
// as 0/1 values aligned with node ids. Every node reads its inputs from the
// state vector as it was before the call.
func (net *Network) Advance() []uint8 {
	for i := range net.nodes {
		net.snapshot[i] = net.nodes[i].state
	}

	chunk := (len(net.nodes) + net.workers - 1) / max(net.workers, 1)
	if net.workers > 1 && chunk >= minChunk {
		var wg sync.WaitGroup
		for lo := 0; lo < len(net.nodes); lo += chunk {
			hi := min(lo+chunk, len(net.nodes))
			wg.Add(1)
			go func() {
				defer wg.Done()
				net.update(lo, hi)
			}()
		}
		wg.Wait()
	} else {
		net.update(0, len(net.nodes))
	}

	net.step++
	return net.State()
}

// update recomputes nodes [lo, hi) from the snapshot.
func (net *Network) update(lo, hi int) {
	for i := lo; i < hi; i++ {
		nd := &net.nodes[i]
		var key uint32
		for _, in := range nd.inputs {
			key <<= 1
			if net.snapshot[in] {
				key |= 1
			}
		}
		out, ok := nd.table.Lookup(key)
		if !ok {
			panic(&MalformedLookupError{Node: nd.id, Key: key, Size: len(nd.table)})
		}
		nd.state = out
	}
}

// State returns a copy of the current state vector as 0/1 values.
func (net *Network) State() []uint8 {
	row := make([]uint8, len(net.nodes))
	for i := range net.nodes {
		if net.nodes[i].state {
			row[i] = 1
		}
	}
	return row
}

// Node returns a copy of node i. It panics if i is out of range.
func (net *Network) Node(i int) NodeView {
	nd := net.nodes[i]
	return NodeView{
		ID:       nd.id,
		InputIDs: slices.Clone(nd.inputs),
		Table:    slices.Clone(nd.table),
		State:    nd.state,
	}
}

// N returns the number of nodes.
func (net *Network) N() int { return net.n }

// K returns the in-degree of every node.
func (net *Network) K() int { return net.k }

// Bias returns the probability p used to sample truth-table entries.
func (net *Network) Bias() float64 { return net.bias }

// Step returns the number of completed Advance calls.
func (net *Network) Step() uint64 { return net.step }
