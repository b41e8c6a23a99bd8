// Package tune searches controller gains against a simulated loop.
package tune

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/ctrlkit/pid"
	"github.com/ctrlkit/pid/internal/loop"
)

// Candidate is one evaluated gain set.
type Candidate struct {
	Kp, Ki, Kd float64
	Cost       float64
}

// GridSearch exhaustively evaluates the cross product of the gain
// ranges.
type GridSearch struct {
	Kp []float64
	Ki []float64
	Kd []float64
}

// Range builds an inclusive linear sweep for one gain.
func Range(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	return vals
}

// Search retunes one bound controller through its mutators for every
// candidate, runs the loop from x0, and minimizes the named metric.
// Each candidate run starts from cleared history (SetGains with reset),
// so candidates do not contaminate each other. The controller is left
// tuned to the best candidate.
func (g *GridSearch) Search(
	ctx context.Context,
	ctrl *pid.Controller,
	runner *loop.Runner,
	x0 loop.State,
	cfg loop.Config,
	metricName string,
) (Candidate, error) {
	if len(g.Kp) == 0 || len(g.Ki) == 0 || len(g.Kd) == 0 {
		return Candidate{}, errors.New("empty gain range")
	}

	best := Candidate{Cost: math.Inf(1)}
	found := false

	for _, kp := range g.Kp {
		for _, ki := range g.Ki {
			for _, kd := range g.Kd {
				if err := ctx.Err(); err != nil {
					return best, err
				}

				if err := ctrl.SetGains(kp, ki, kd, true); err != nil {
					return best, errors.Wrapf(err, "candidate (%v, %v, %v)", kp, ki, kd)
				}

				result, err := runner.Run(ctx, x0, cfg)
				if err != nil {
					return best, errors.Wrapf(err, "candidate (%v, %v, %v)", kp, ki, kd)
				}

				cost, ok := result.Metrics[metricName]
				if !ok {
					return best, errors.Errorf("metric %q not produced by runner", metricName)
				}
				if cost < best.Cost {
					best = Candidate{Kp: kp, Ki: ki, Kd: kd, Cost: cost}
					found = true
				}
			}
		}
	}

	if !found {
		return best, errors.New("no candidate produced a finite cost")
	}

	if err := ctrl.SetGains(best.Kp, best.Ki, best.Kd, true); err != nil {
		return best, errors.Wrap(err, "apply best candidate")
	}
	return best, nil
}
