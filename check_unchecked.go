//go:build pidunchecked

package pid

// Unchecked build: Update performs no argument validation. Calling it
// on a nil controller or with non-finite inputs is undefined behavior
// by contract.
func (c *Controller) checkUpdateArgs(setpoint, measurement float64) error {
	return nil
}
