package metrics

import "math"

// ISE is the integral of squared tracking error, the default tuning
// cost. The timestep is inferred from successive observation times.
type ISE struct {
	sum   float64
	prevT float64
	first bool
}

func NewISE() *ISE {
	return &ISE{first: true}
}

func (m *ISE) Name() string { return "ise" }

func (m *ISE) Observe(measurement, setpoint, u, t float64) {
	e := setpoint - measurement
	if m.first {
		m.first = false
		m.prevT = t
		return
	}
	dt := t - m.prevT
	m.prevT = t
	m.sum += e * e * dt
}

func (m *ISE) Value() float64 { return m.sum }

func (m *ISE) Reset() {
	m.sum = 0
	m.prevT = 0
	m.first = true
}

// Overshoot is the peak excursion of the measurement past the setpoint,
// as a fraction of the setpoint magnitude (absolute when the setpoint
// is zero).
type Overshoot struct {
	peak float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{}
}

func (m *Overshoot) Name() string { return "overshoot" }

func (m *Overshoot) Observe(measurement, setpoint, u, t float64) {
	// past the setpoint in the direction of approach; for either sign
	// of setpoint this normalizes to a positive fraction
	var over float64
	if setpoint != 0 {
		over = (measurement - setpoint) / setpoint
	} else {
		over = math.Abs(measurement)
	}
	if over > m.peak {
		m.peak = over
	}
}

func (m *Overshoot) Value() float64 { return m.peak }

func (m *Overshoot) Reset() { m.peak = 0 }

// SettlingTime is the last time the tracking error left the settle
// band, an absolute tolerance around the setpoint.
type SettlingTime struct {
	band float64
	last float64
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{band: band}
}

func (m *SettlingTime) Name() string { return "settling_time" }

func (m *SettlingTime) Observe(measurement, setpoint, u, t float64) {
	if math.Abs(setpoint-measurement) > m.band {
		m.last = t
	}
}

func (m *SettlingTime) Value() float64 { return m.last }

func (m *SettlingTime) Reset() { m.last = 0 }

// SteadyStateError is the absolute tracking error of the final
// observation.
type SteadyStateError struct {
	err float64
}

func NewSteadyStateError() *SteadyStateError {
	return &SteadyStateError{}
}

func (m *SteadyStateError) Name() string { return "steady_state_error" }

func (m *SteadyStateError) Observe(measurement, setpoint, u, t float64) {
	m.err = math.Abs(setpoint - measurement)
}

func (m *SteadyStateError) Value() float64 { return m.err }

func (m *SteadyStateError) Reset() { m.err = 0 }
