package plant

import (
	"math"

	"github.com/ctrlkit/pid/internal/loop"
)

// Pendulum is a damped pendulum with a torque input. State is
// [theta, omega]; the measured output is theta.
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) StateDim() int { return 2 }

func (p *Pendulum) Output(x loop.State) float64 { return x[0] }

func (p *Pendulum) Derive(x loop.State, u, t float64) loop.State {
	theta, omega := x[0], x[1]
	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta) + u) / (p.Mass * p.Length * p.Length)
	return loop.State{omega, alpha}
}
