package rbn

// Option configures a Network built by New.
type Option func(net *Network)

// WithProvider makes the network draw wiring, tables and randomized states
// from p.
func WithProvider(p RandProvider) Option {
	return func(net *Network) {
		net.provider = p
	}
}

// WithSeed is shorthand for WithProvider(NewSource(seed)).
func WithSeed(seed uint64) Option {
	return func(net *Network) {
		net.provider = NewSource(seed)
	}
}

// WithParallelism splits each Advance across up to workers goroutines.
// Small networks are still updated on the calling goroutine.
func WithParallelism(workers int) Option {
	return func(net *Network) {
		net.workers = max(workers, 1)
	}
}
