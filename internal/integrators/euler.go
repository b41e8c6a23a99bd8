// Package integrators provides fixed-step ODE steppers for plant
// models.
package integrators

import "github.com/ctrlkit/pid/internal/loop"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p loop.Plant, x loop.State, u, t, dt float64) loop.State {
	dx := p.Derive(x, u, t)
	result := make(loop.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
