package loop

// State is a plant state vector.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Plant is a controllable process with one scalar actuator input and
// one scalar measured output.
type Plant interface {
	Derive(x State, u, t float64) State
	StateDim() int
	Output(x State) float64
}

// Integrator advances a plant state by one timestep under a held
// control input.
type Integrator interface {
	Step(p Plant, x State, u, t, dt float64) State
}

// Metric accumulates one scalar statistic over a run.
type Metric interface {
	Name() string
	Observe(measurement, setpoint, u, t float64)
	Value() float64
	Reset()
}

// Observer is called once per loop step.
type Observer interface {
	OnStep(x State, u, setpoint, t float64)
}

// Step is one point of a setpoint schedule: from time At onward the
// setpoint is Value.
type Step struct {
	At    float64
	Value float64
}

// Schedule is a piecewise-constant setpoint profile, ordered by time.
type Schedule []Step

// Constant returns a schedule holding a single setpoint forever.
func Constant(v float64) Schedule {
	return Schedule{{At: 0, Value: v}}
}

// At returns the scheduled setpoint at time t. Before the first step
// the first value applies.
func (s Schedule) At(t float64) float64 {
	if len(s) == 0 {
		return 0
	}
	v := s[0].Value
	for _, step := range s {
		if step.At > t {
			break
		}
		v = step.Value
	}
	return v
}

// Config parameterizes one closed-loop run.
type Config struct {
	Dt       float64
	Duration float64
	Setpoint Schedule
}

// Result holds the recorded series and metrics of a run. Outputs are
// plant measurements, Controls the controller outputs, both sampled at
// the loop rate.
type Result struct {
	Times     []float64
	Setpoints []float64
	Outputs   []float64
	Controls  []float64
	Metrics   map[string]float64
}
