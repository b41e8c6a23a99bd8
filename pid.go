package pid

import (
	"math"

	"github.com/pkg/errors"
)

// Config holds the full configuration of one controller instance.
// Gains must be finite and non-negative. A Kaw of zero disables
// anti-windup back-calculation. Output limits must satisfy UMin < UMax.
type Config struct {
	Kp  float64
	Ki  float64
	Kd  float64
	Kaw float64

	UMin float64
	UMax float64
}

// Controller is the state record for one incremental PID instance.
// The zero value is not usable; initialize through Bind, BindBytes, or
// New. The caller owns the record and its memory for the controller's
// whole lifetime.
type Controller struct {
	kp  float64
	ki  float64
	kd  float64
	kaw float64

	// history: errors at n-1 and n-2, and the previously emitted
	// (clamped) output
	e1    float64
	e2    float64
	uPrev float64

	uMin float64
	uMax float64
}

// New allocates and initializes a controller. Hosts that need placement
// control should use Bind or BindBytes instead.
func New(cfg Config) (*Controller, error) {
	return Bind(new(Controller), cfg)
}

// Bind initializes a controller in place over caller-owned storage and
// returns it as the handle for all further operations. History starts
// zeroed, with the previous output clamped into [UMin, UMax]. On any
// validation failure the storage is left untouched.
func Bind(store *Controller, cfg Config) (*Controller, error) {
	if store == nil {
		diagf("bind: nil storage")
		return nil, errors.Wrap(ErrInvalidArgument, "nil storage")
	}
	if err := validateConfig(cfg); err != nil {
		diagf("bind: %v", err)
		return nil, err
	}

	store.kp = cfg.Kp
	store.ki = cfg.Ki
	store.kd = cfg.Kd
	store.kaw = cfg.Kaw
	store.e1 = 0
	store.e2 = 0
	store.uPrev = clamp(0, cfg.UMin, cfg.UMax)
	store.uMin = cfg.UMin
	store.uMax = cfg.UMax
	return store, nil
}

// Update advances the controller one step: it computes the incremental
// control law for (setpoint, measurement), applies anti-windup
// back-calculation if the unclamped candidate saturated, commits the
// new history, and returns the clamped output. On a validation failure
// no state changes.
//
// The incremental law, with e0 = setpoint - measurement:
//
//	Δu = Kp·(e0-e1) + Ki·e0 + Kd·(e0-2·e1+e2)
//
// The returned output is clamp(uPrev+Δu, UMin, UMax). When the
// unclamped candidate saturated and Kaw is non-zero, the value fed
// forward as the next step's previous output is pulled back by
// Kaw·(clamped − unclamped), so integral action stops accumulating in
// the saturated direction.
//
// An unclamped candidate that overflows to infinity still clamps to
// the nearer limit; a step whose error term or candidate output is NaN
// (finite inputs whose difference overflows, or opposing infinite gain
// terms) is rejected as ErrInvalidArgument with no state change. The
// stored history is finite after every call.
func (c *Controller) Update(setpoint, measurement float64) (float64, error) {
	if err := c.checkUpdateArgs(setpoint, measurement); err != nil {
		diagf("update: %v", err)
		return 0, err
	}

	e0 := setpoint - measurement
	if !finite(e0) {
		diagf("update: error term overflows")
		return 0, errors.Wrap(ErrInvalidArgument, "setpoint-measurement difference not finite")
	}

	duP := c.kp * (e0 - c.e1)
	duI := c.ki * e0
	duD := c.kd * (e0 - 2*c.e1 + c.e2)

	// large gains can push the raw candidate to +/-Inf; the clamp
	// resolves that deterministically, but a NaN (from opposing
	// infinite terms) has no defensible output
	uRaw := c.uPrev + duP + duI + duD
	if math.IsNaN(uRaw) {
		diagf("update: raw output is NaN")
		return 0, errors.Wrap(ErrInvalidArgument, "raw output not a number")
	}
	u := clamp(uRaw, c.uMin, c.uMax)

	// back-calculation only on actual saturation: u-uRaw opposes the
	// saturation excess and Kaw scales how much of it is bled out of
	// the feed-forward term. The unsaturated (and Kaw of zero) path
	// stores the plain clamped output, so an overflowed uRaw never
	// reaches the multiply.
	if u != uRaw && c.kaw != 0 {
		c.uPrev = clamp(u+c.kaw*(u-uRaw), c.uMin, c.uMax)
	} else {
		c.uPrev = u
	}
	c.e2 = c.e1
	c.e1 = e0
	return u, nil
}

// Reset zeroes the error history and re-clamps the previous output to
// zero within the configured limits. Gains and limits are untouched.
// Idempotent.
func (c *Controller) Reset() {
	c.e1 = 0
	c.e2 = 0
	c.uPrev = clamp(0, c.uMin, c.uMax)
}

// SetGains replaces the proportional, integral, and derivative gains.
// With resetState set, the history is cleared in the same call, so a
// retune and a fresh start happen together. On a validation failure
// the controller is unchanged.
func (c *Controller) SetGains(kp, ki, kd float64, resetState bool) error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "nil controller")
	}
	if err := validateGain("kp", kp); err != nil {
		diagf("set gains: %v", err)
		return err
	}
	if err := validateGain("ki", ki); err != nil {
		diagf("set gains: %v", err)
		return err
	}
	if err := validateGain("kd", kd); err != nil {
		diagf("set gains: %v", err)
		return err
	}

	c.kp = kp
	c.ki = ki
	c.kd = kd
	if resetState {
		c.Reset()
	}
	return nil
}

// SetAntiWindup replaces the anti-windup gain. Zero is valid and
// disables back-calculation.
func (c *Controller) SetAntiWindup(kaw float64) error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "nil controller")
	}
	if err := validateGain("kaw", kaw); err != nil {
		diagf("set anti-windup: %v", err)
		return err
	}
	c.kaw = kaw
	return nil
}

// SetOutputLimits replaces the output clamp bounds. The stored previous
// output is not re-clamped; the next Update clamps against the new
// limits. Rejects umin >= umax.
func (c *Controller) SetOutputLimits(umin, umax float64) error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "nil controller")
	}
	if err := validateLimits(umin, umax); err != nil {
		diagf("set output limits: %v", err)
		return err
	}
	c.uMin = umin
	c.uMax = umax
	return nil
}

// Config returns a snapshot of the controller's current configuration.
// A nil controller reads as the zero Config.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return Config{
		Kp:   c.kp,
		Ki:   c.ki,
		Kd:   c.kd,
		Kaw:  c.kaw,
		UMin: c.uMin,
		UMax: c.uMax,
	}
}

func validateConfig(cfg Config) error {
	if err := validateGain("kp", cfg.Kp); err != nil {
		return err
	}
	if err := validateGain("ki", cfg.Ki); err != nil {
		return err
	}
	if err := validateGain("kd", cfg.Kd); err != nil {
		return err
	}
	if err := validateGain("kaw", cfg.Kaw); err != nil {
		return err
	}
	return validateLimits(cfg.UMin, cfg.UMax)
}

func validateGain(name string, v float64) error {
	if !finite(v) {
		return errors.Wrapf(ErrInvalidArgument, "%s not finite", name)
	}
	if v < 0 {
		return errors.Wrapf(ErrInvalidArgument, "%s negative", name)
	}
	return nil
}

func validateLimits(umin, umax float64) error {
	if !finite(umin) || !finite(umax) {
		return errors.Wrap(ErrInvalidArgument, "limits not finite")
	}
	if umin >= umax {
		return errors.Wrapf(ErrInvalidArgument, "limits inverted (u_min %v >= u_max %v)", umin, umax)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
