// Package plant provides process models for closed-loop simulation.
package plant

import "github.com/ctrlkit/pid/internal/loop"

const (
	DefaultGain = 2.0
	DefaultTau  = 1.5
)

// FirstOrder is a first-order lag: tau * dy/dt = gain*u - y. A decent
// stand-in for thermal and flow processes.
type FirstOrder struct {
	Gain float64
	Tau  float64
}

func NewFirstOrder() *FirstOrder {
	return &FirstOrder{
		Gain: DefaultGain,
		Tau:  DefaultTau,
	}
}

func (f *FirstOrder) StateDim() int { return 1 }

func (f *FirstOrder) Output(x loop.State) float64 { return x[0] }

func (f *FirstOrder) Derive(x loop.State, u, t float64) loop.State {
	return loop.State{(f.Gain*u - x[0]) / f.Tau}
}
