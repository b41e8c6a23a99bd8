// Package loop runs a PID controller against a plant model at a fixed
// rate, standing in for the embedded control loop that would own the
// controller on real hardware.
package loop

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ctrlkit/pid"
)

// Runner drives one controller/plant pair. The runner owns nothing:
// the controller is bound by the caller and can be retuned between
// runs through its mutators.
type Runner struct {
	plant     Plant
	integ     Integrator
	ctrl      *pid.Controller
	metrics   []Metric
	observers []Observer
	log       *zap.SugaredLogger
}

func New(plant Plant, integ Integrator, ctrl *pid.Controller) *Runner {
	return &Runner{
		plant: plant,
		integ: integ,
		ctrl:  ctrl,
		log:   zap.NewNop().Sugar(),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	r.log = l
}

// Run executes the closed loop from x0: each step reads the plant
// output, updates the controller against the scheduled setpoint, and
// integrates the plant under the returned control. The controller's
// history carries whatever it held going in; callers wanting a fresh
// transient reset it first.
func (r *Runner) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != r.plant.StateDim() {
		return nil, errors.Errorf("initial state has %d elements, plant wants %d", len(x0), r.plant.StateDim())
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:     make([]float64, 0, steps),
		Setpoints: make([]float64, 0, steps),
		Outputs:   make([]float64, 0, steps),
		Controls:  make([]float64, 0, steps),
		Metrics:   make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sp := cfg.Setpoint.At(t)
		meas := r.plant.Output(x)

		u, err := r.ctrl.Update(sp, meas)
		if err != nil {
			return result, errors.Wrapf(err, "controller update at t=%.4f", t)
		}

		for _, m := range r.metrics {
			m.Observe(meas, sp, u, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(x, u, sp, t)
		}

		result.Times = append(result.Times, t)
		result.Setpoints = append(result.Setpoints, sp)
		result.Outputs = append(result.Outputs, meas)
		result.Controls = append(result.Controls, u)

		x = r.integ.Step(r.plant, x, u, t, cfg.Dt)
		t += cfg.Dt
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	r.log.Debugw("loop run complete",
		"steps", steps,
		"dt", cfg.Dt,
		"final_output", r.plant.Output(x),
		"metrics", result.Metrics,
	)

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return errors.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return errors.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if len(cfg.Setpoint) == 0 {
		return errors.New("setpoint schedule is empty")
	}
	return nil
}
