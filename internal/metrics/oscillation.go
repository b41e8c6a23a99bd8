package metrics

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Oscillation estimates the dominant frequency (Hz) of the tracking
// error over a run. A well-damped loop reports near zero; ringing shows
// up as the ring frequency.
type Oscillation struct {
	errs   []float64
	firstT float64
	lastT  float64
}

func NewOscillation() *Oscillation {
	return &Oscillation{}
}

func (m *Oscillation) Name() string { return "oscillation_hz" }

func (m *Oscillation) Observe(measurement, setpoint, u, t float64) {
	if len(m.errs) == 0 {
		m.firstT = t
	}
	m.lastT = t
	m.errs = append(m.errs, setpoint-measurement)
}

func (m *Oscillation) Value() float64 {
	n := len(m.errs)
	if n < 4 || m.lastT <= m.firstT {
		return 0
	}

	// remove the mean so a steady offset does not read as DC energy
	mean := 0.0
	for _, e := range m.errs {
		mean += e
	}
	mean /= float64(n)

	padded := make([]float64, nextPow2(n))
	for i, e := range m.errs {
		padded[i] = e - mean
	}

	spectrum := fft.FFTReal(padded)

	peak := 0.0
	peakIdx := 0
	for i := 1; i < len(spectrum)/2; i++ {
		if mag := cmplx.Abs(spectrum[i]); mag > peak {
			peak = mag
			peakIdx = i
		}
	}

	sampleRate := float64(n-1) / (m.lastT - m.firstT)
	return float64(peakIdx) * sampleRate / float64(len(padded))
}

func (m *Oscillation) Reset() {
	m.errs = m.errs[:0]
	m.firstT = 0
	m.lastT = 0
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
