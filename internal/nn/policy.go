package nn

import (
	"fmt"

	"github.com/san-kum/quadai/internal/mixer"
)

// Discrete picks the highest-scoring of the five discrete actions.
func (m *MLP) Discrete(obs []float64) (int, error) {
	if m.Outputs() != mixer.NumDiscrete {
		return 0, fmt.Errorf("%w: %d outputs, want %d", ErrShape, m.Outputs(), mixer.NumDiscrete)
	}
	q, err := m.Forward(obs)
	if err != nil {
		return 0, err
	}
	best := 0
	for i := 1; i < len(q); i++ {
		if q[i] > q[best] {
			best = i
		}
	}
	return best, nil
}

// Continuous reads (thrust, differential) from the first two outputs.
func (m *MLP) Continuous(obs []float64) (float64, float64, error) {
	if m.Outputs() < 2 {
		return 0, 0, fmt.Errorf("%w: %d outputs, want at least 2", ErrShape, m.Outputs())
	}
	out, err := m.Forward(obs)
	if err != nil {
		return 0, 0, err
	}
	return out[0], out[1], nil
}
