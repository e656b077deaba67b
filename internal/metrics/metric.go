// Package metrics accumulates per-agent statistics over a run.
package metrics

import "github.com/san-kum/quadai/internal/dynamo"

// Sample is what one agent looked like after one tick.
type Sample struct {
	State       dynamo.KinematicState
	Left, Right float64
	Alive       bool
	Tick        int
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Standard returns the metrics reported for every player.
func Standard(c dynamo.Constants) []Metric {
	return []Metric{
		NewControlEffort(c.ThrusterMean),
		NewKineticEnergy(c.Mass),
		NewDeaths(),
		NewAliveFraction(),
	}
}

// Values snapshots a metric set keyed by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
