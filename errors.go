package rbn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters is returned when N, K, p or an activation
	// probability cannot describe a network.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrProviderContract marks an injected RandProvider that returned wiring
	// violating its contract (wrong count, duplicates, out of range).
	ErrProviderContract = errors.New("rand provider contract violated")
)

// ParamError describes which parameter was rejected and why.
type ParamError struct {
	Param  string
	Value  any
	Reason string
	Err    error // optional cause, e.g. ErrProviderContract
}

func (e *ParamError) Error() string {
	msg := fmt.Sprintf("%s: %s=%v: %s", ErrInvalidParameters, e.Param, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParameters
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// MalformedLookupError is the panic value raised by Advance when a node's
// truth table has no entry for an assembled key. It indicates a construction
// defect and is never returned as an error.
type MalformedLookupError struct {
	Node int
	Key  uint32
	Size int
}

func (e *MalformedLookupError) Error() string {
	return fmt.Sprintf("rbn: malformed lookup: node %d key %d outside truth table of %d entries", e.Node, e.Key, e.Size)
}
