// Package analysis records trajectories of a network and measures them.
// Every helper here drives the network through repeated single Advance
// calls; there is no multi-step shortcut.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/comalice/rbn"
)

// ErrNoAttractor is returned when no state repeats within the step limit.
var ErrNoAttractor = errors.New("no attractor found within step limit")

// Trajectory is a sequence of state rows. Row 0 is the state before the
// first recorded Advance.
type Trajectory [][]uint8

// Record captures the current state followed by steps Advance rows.
func Record(net *rbn.Network, steps int) (Trajectory, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps=%d: must be non-negative", rbn.ErrInvalidParameters, steps)
	}
	traj := make(Trajectory, 0, steps+1)
	traj = append(traj, net.State())
	for i := 0; i < steps; i++ {
		traj = append(traj, net.Advance())
	}
	return traj, nil
}

// Attractor describes the cycle a trajectory falls into.
type Attractor struct {
	Transient int       // steps taken before the cycle is entered
	Period    int       // cycle length; 1 is a fixed point
	Cycle     [][]uint8 // states on the cycle, in visiting order
}

// FindAttractor advances net until a state repeats or maxSteps is reached.
// The network is left at the step on which the repeat was detected.
func FindAttractor(net *rbn.Network, maxSteps int) (Attractor, error) {
	seen := make(map[string]int)
	var history [][]uint8

	row := net.State()
	for step := 0; ; step++ {
		key := pack(row)
		if first, ok := seen[key]; ok {
			return Attractor{
				Transient: first,
				Period:    step - first,
				Cycle:     history[first:step],
			}, nil
		}
		if step >= maxSteps {
			return Attractor{}, fmt.Errorf("%w (%d steps)", ErrNoAttractor, maxSteps)
		}
		seen[key] = step
		history = append(history, row)
		row = net.Advance()
	}
}

// pack turns a row into a compact map key, eight nodes per byte.
func pack(row []uint8) string {
	buf := make([]byte, (len(row)+7)/8)
	for i, b := range row {
		if b != 0 {
			buf[i/8] |= 1 << (i % 8)
		}
	}
	return string(buf)
}

// Hamming counts positions where a and b differ. Rows must have equal length.
func Hamming(a, b []uint8) int {
	if len(a) != len(b) {
		panic(fmt.Sprintf("analysis: Hamming on rows of length %d and %d", len(a), len(b)))
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// Density is the fraction of ones in row.
func Density(row []uint8) float64 {
	if len(row) == 0 {
		return 0
	}
	ones := 0
	for _, b := range row {
		if b != 0 {
			ones++
		}
	}
	return float64(ones) / float64(len(row))
}

// Activity returns, for each consecutive pair of rows, the fraction of
// nodes that changed state.
func Activity(traj Trajectory) []float64 {
	if len(traj) < 2 {
		return nil
	}
	out := make([]float64, len(traj)-1)
	for i := 1; i < len(traj); i++ {
		if n := len(traj[i]); n > 0 {
			out[i-1] = float64(Hamming(traj[i-1], traj[i])) / float64(n)
		}
	}
	return out
}

// Regime is the dynamical phase predicted by the annealed approximation.
type Regime int

const (
	Ordered Regime = iota
	Critical
	Chaotic
)

func (r Regime) String() string {
	switch r {
	case Ordered:
		return "ordered"
	case Critical:
		return "critical"
	case Chaotic:
		return "chaotic"
	}
	return fmt.Sprintf("Regime(%d)", int(r))
}

// criticalTolerance absorbs float error around 2Kp(1-p) == 1.
const criticalTolerance = 1e-9

// Sensitivity is the expected number of nodes a single flip propagates to
// in one step, 2·K·p·(1-p).
func Sensitivity(k int, p float64) float64 {
	return 2 * float64(k) * p * (1 - p)
}

// Classify places (k, p) in the ordered, critical or chaotic phase.
func Classify(k int, p float64) Regime {
	s := Sensitivity(k, p)
	switch {
	case s < 1-criticalTolerance:
		return Ordered
	case s > 1+criticalTolerance:
		return Chaotic
	default:
		return Critical
	}
}

// Render draws rows as text, one line per row, with on and off runes.
func Render(traj Trajectory, on, off rune) string {
	var sb strings.Builder
	for _, row := range traj {
		for _, b := range row {
			if b != 0 {
				sb.WriteRune(on)
			} else {
				sb.WriteRune(off)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
