package integrators

import "github.com/ctrlkit/pid/internal/loop"

type RK4 struct {
	scratch loop.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.scratch = make(loop.State, n)
	}
}

func (r *RK4) Step(p loop.Plant, x loop.State, u, t, dt float64) loop.State {
	n := len(x)
	r.ensureScratch(n)

	k1 := p.Derive(x, u, t)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := p.Derive(r.scratch, u, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := p.Derive(r.scratch, u, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*k3[i]
	}
	k4 := p.Derive(r.scratch, u, t+dt)

	result := make(loop.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
