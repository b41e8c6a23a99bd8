package metrics

// Cost is a tuning objective combining tracking error and actuator
// effort: ISE plus a weighted mean absolute control output. A zero
// weight reduces it to plain ISE.
type Cost struct {
	ise    ISE
	effort ControlEffort
	weight float64
}

func NewCost(effortWeight float64) *Cost {
	c := &Cost{weight: effortWeight}
	c.ise = *NewISE()
	return c
}

func (c *Cost) Name() string { return "cost" }

func (c *Cost) Observe(measurement, setpoint, u, t float64) {
	c.ise.Observe(measurement, setpoint, u, t)
	c.effort.Observe(measurement, setpoint, u, t)
}

func (c *Cost) Value() float64 {
	return c.ise.Value() + c.weight*c.effort.Value()
}

func (c *Cost) Reset() {
	c.ise.Reset()
	c.effort.Reset()
}
