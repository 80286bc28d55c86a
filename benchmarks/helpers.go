// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/comalice/rbn"
)

// Shape is one network size to benchmark.
type Shape struct {
	N, K int
}

func (s Shape) String() string {
	return fmt.Sprintf("N=%d/K=%d", s.N, s.K)
}

// Shapes covers small interactive grids up to large sparse networks.
var Shapes = []Shape{
	{N: 20, K: 2},
	{N: 1000, K: 2},
	{N: 1000, K: 5},
	{N: 100000, K: 2},
}

// GenNetwork builds a seeded, randomized network.
func GenNetwork(s Shape, opts ...rbn.Option) (*rbn.Network, error) {
	opts = append([]rbn.Option{rbn.WithSeed(uint64(s.N*31 + s.K))}, opts...)
	net, err := rbn.New(s.N, s.K, 0.5, opts...)
	if err != nil {
		return nil, err
	}
	if err := net.RandomizeState(0.5); err != nil {
		return nil, err
	}
	return net, nil
}
