package integrators

import (
	"math"
	"testing"

	"github.com/ctrlkit/pid/internal/loop"
)

// undamped oscillator: x'' = -x, closed form cos/sin
type oscillator struct{}

func (o *oscillator) Derive(x loop.State, u, t float64) loop.State {
	return loop.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }

func (o *oscillator) Output(x loop.State) float64 { return x[0] }

func TestRK4Accuracy(t *testing.T) {
	p := &oscillator{}
	integ := NewRK4()

	x := loop.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(p, x, 0, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerConvergesTowardRK4(t *testing.T) {
	p := &oscillator{}
	euler := NewEuler()
	rk4 := NewRK4()

	run := func(integ loop.Integrator, dt float64) float64 {
		x := loop.State{1.0, 0.0}
		steps := int(1.0 / dt)
		for i := 0; i < steps; i++ {
			x = integ.Step(p, x, 0, float64(i)*dt, dt)
		}
		return x[0]
	}

	ref := run(rk4, 0.001)
	coarse := math.Abs(run(euler, 0.01) - ref)
	fine := math.Abs(run(euler, 0.001) - ref)

	if fine >= coarse {
		t.Errorf("euler error did not shrink with dt: coarse %.2e, fine %.2e", coarse, fine)
	}
}
