package plant

import "github.com/ctrlkit/pid/internal/loop"

const (
	DefaultMass      = 1.0
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

// SpringMass is a single damped mass on a spring with a force input.
// State is [position, velocity]; the measured output is position.
type SpringMass struct {
	Mass      float64
	Stiffness float64
	Damping   float64
}

func NewSpringMass() *SpringMass {
	return &SpringMass{
		Mass:      DefaultMass,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
	}
}

func (s *SpringMass) StateDim() int { return 2 }

func (s *SpringMass) Output(x loop.State) float64 { return x[0] }

func (s *SpringMass) Derive(x loop.State, u, t float64) loop.State {
	pos, vel := x[0], x[1]
	accel := (u - s.Stiffness*pos - s.Damping*vel) / s.Mass
	return loop.State{vel, accel}
}
