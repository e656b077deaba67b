package metrics

import "math"

// ControlEffort is the mean absolute thruster deviation from hover while alive.
type ControlEffort struct {
	name    string
	hover   float64
	sum     float64
	samples int
}

func NewControlEffort(hover float64) *ControlEffort {
	return &ControlEffort{
		name:  "control_effort",
		hover: hover,
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s Sample) {
	if !s.Alive {
		return
	}
	c.sum += math.Abs(s.Left-c.hover) + math.Abs(s.Right-c.hover)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
