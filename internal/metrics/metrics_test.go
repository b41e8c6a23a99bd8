package metrics

import (
	"math"
	"testing"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(0, 0, 3, 0)
	m.Observe(0, 0, -5, 0.01)

	if v := m.Value(); v != 4 {
		t.Errorf("expected mean effort 4, got %v", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestISEAccumulates(t *testing.T) {
	m := NewISE()
	// constant error of 2 over one second at dt=0.1: ISE ~ 4.0 minus
	// the skipped first sample interval
	for i := 0; i <= 10; i++ {
		m.Observe(0, 2, 0, float64(i)*0.1)
	}
	if v := m.Value(); math.Abs(v-4.0) > 1e-9 {
		t.Errorf("expected ISE 4.0, got %v", v)
	}
}

func TestOvershootTracksPeak(t *testing.T) {
	m := NewOvershoot()
	for _, meas := range []float64{0, 5, 11, 12.5, 11, 10} {
		m.Observe(meas, 10, 0, 0)
	}
	if v := m.Value(); math.Abs(v-0.25) > 1e-9 {
		t.Errorf("expected 25%% overshoot, got %v", v)
	}
}

func TestOvershootNegativeSetpoint(t *testing.T) {
	m := NewOvershoot()
	m.Observe(-12, -10, 0, 0)
	if v := m.Value(); math.Abs(v-0.2) > 1e-9 {
		t.Errorf("expected 20%% overshoot, got %v", v)
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(0.5)
	series := []struct{ t, meas float64 }{
		{0, 0}, {1, 6}, {2, 12}, {3, 10.4}, {4, 10.1}, {5, 9.9},
	}
	for _, s := range series {
		m.Observe(s.meas, 10, 0, s.t)
	}
	if v := m.Value(); v != 2 {
		t.Errorf("expected settling at t=2, got %v", v)
	}
}

func TestSteadyStateError(t *testing.T) {
	m := NewSteadyStateError()
	m.Observe(0, 10, 0, 0)
	m.Observe(9.7, 10, 0, 1)
	if v := m.Value(); math.Abs(v-0.3) > 1e-9 {
		t.Errorf("expected final error 0.3, got %v", v)
	}
}

func TestOscillationFindsRingFrequency(t *testing.T) {
	m := NewOscillation()

	// 2 Hz error signal sampled at 100 Hz for 4 seconds
	dt := 0.01
	for i := 0; i < 400; i++ {
		ti := float64(i) * dt
		m.Observe(math.Sin(2*math.Pi*2*ti), 0, 0, ti)
	}

	if v := m.Value(); math.Abs(v-2.0) > 0.2 {
		t.Errorf("expected dominant frequency near 2 Hz, got %v", v)
	}
}

func TestOscillationFlatSignal(t *testing.T) {
	m := NewOscillation()
	for i := 0; i < 100; i++ {
		m.Observe(5, 5, 0, float64(i)*0.01)
	}
	if v := m.Value(); v != 0 {
		t.Errorf("expected 0 for flat error, got %v", v)
	}
}

func TestCostCombinesISEAndEffort(t *testing.T) {
	m := NewCost(0.5)
	// constant error 2, constant |u| 4 over one second at dt=0.1
	for i := 0; i <= 10; i++ {
		m.Observe(0, 2, 4, float64(i)*0.1)
	}

	// ise 4.0 plus 0.5 * mean effort 4
	if v := m.Value(); math.Abs(v-6.0) > 1e-9 {
		t.Errorf("expected cost 6.0, got %v", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero cost after reset")
	}
}

func TestCostZeroWeightIsISE(t *testing.T) {
	c := NewCost(0)
	ise := NewISE()
	for i := 0; i <= 5; i++ {
		ti := float64(i) * 0.1
		c.Observe(1, 3, 100, ti)
		ise.Observe(1, 3, 100, ti)
	}
	if c.Value() != ise.Value() {
		t.Errorf("cost %v differs from ise %v", c.Value(), ise.Value())
	}
}
