package metrics

type KineticEnergy struct {
	name    string
	mass    float64
	samples int
	total   float64
}

func NewKineticEnergy(mass float64) *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		mass: mass,
	}
}

func (e *KineticEnergy) Name() string { return e.name }

// Observe accumulates translational kinetic energy for live samples.
func (e *KineticEnergy) Observe(s Sample) {
	if !s.Alive {
		return
	}
	v := s.State.Speed()
	e.total += 0.5 * e.mass * v * v
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}
