//go:build !pidunchecked

package pid

import "github.com/pkg/errors"

// checkUpdateArgs validates the Update hot path. Compiled out by the
// pidunchecked build tag, which shifts the finiteness and non-nil
// contract onto the caller.
func (c *Controller) checkUpdateArgs(setpoint, measurement float64) error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "nil controller")
	}
	if !finite(setpoint) {
		return errors.Wrap(ErrInvalidArgument, "setpoint not finite")
	}
	if !finite(measurement) {
		return errors.Wrap(ErrInvalidArgument, "measurement not finite")
	}
	return nil
}
