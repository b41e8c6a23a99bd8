// Package pid implements an incremental (velocity-form) PID controller
// with back-calculation anti-windup, designed for fixed-rate control
// loops on constrained targets.
//
// The controller keeps no hidden state: all configuration and history
// live in a [Controller] record the caller owns. [Bind] lays a
// controller out over caller-supplied storage without allocating;
// [BindBytes] does the same over a raw byte buffer after checking
// [StorageSize] and [StorageAlignment]; [New] allocates for hosts that
// do not care about placement.
//
//	store := new(pid.Controller)
//	c, err := pid.Bind(store, pid.Config{
//		Kp: 1, Ki: 0.1, Kd: 0.01,
//		UMin: -100, UMax: 100,
//	})
//	...
//	u, err := c.Update(setpoint, measurement)
//
// Every Update output is clamped to [UMin, UMax]. With a non-zero
// anti-windup gain Kaw, saturation feeds a corrective term back into
// the increment so integral action stops accumulating against the
// limit; Kaw of zero disables the correction.
//
// The package is not internally synchronized. A controller must see at
// most one in-flight call at a time; callers that share a controller
// across goroutines or interrupt contexts must provide their own
// exclusion.
//
// Building with the pidunchecked tag removes argument validation from
// the Update path; a nil controller or non-finite input is then the
// caller's contract to prevent. Building with the piddiag tag enables
// zap-backed diagnostic logging of rejected arguments.
package pid
