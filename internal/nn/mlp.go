// Package nn runs inference for trained policy networks.
//
// A network is a stack of dense layers stored as YAML:
//
//	inputs: 7
//	layers:
//	  - activation: relu
//	    weights: [[...], ...] # one row per output unit
//	    bias: [...]
package nn

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

var (
	ErrShape      = errors.New("nn: layer shape mismatch")
	ErrActivation = errors.New("nn: unknown activation")
)

type Activation string

const (
	Linear Activation = "linear"
	ReLU   Activation = "relu"
	Tanh   Activation = "tanh"
)

func (a Activation) apply(v float64) float64 {
	switch a {
	case ReLU:
		return math.Max(0, v)
	case Tanh:
		return math.Tanh(v)
	}
	return v
}

func (a Activation) valid() bool {
	switch a {
	case "", Linear, ReLU, Tanh:
		return true
	}
	return false
}

// LayerSpec is the on-disk form of one dense layer.
type LayerSpec struct {
	Activation Activation  `yaml:"activation"`
	Weights    [][]float64 `yaml:"weights"`
	Bias       []float64   `yaml:"bias"`
}

// Spec is the on-disk form of a network.
type Spec struct {
	Inputs int         `yaml:"inputs"`
	Layers []LayerSpec `yaml:"layers"`
}

type layer struct {
	w   *mat.Dense
	b   *mat.VecDense
	act Activation
}

// MLP is an immutable feedforward network. It is safe for concurrent use.
type MLP struct {
	inputs int
	layers []layer
}

func New(spec Spec) (*MLP, error) {
	if spec.Inputs <= 0 {
		return nil, fmt.Errorf("%w: %d inputs", ErrShape, spec.Inputs)
	}
	if len(spec.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrShape)
	}

	m := &MLP{inputs: spec.Inputs}
	width := spec.Inputs
	for i, ls := range spec.Layers {
		if !ls.Activation.valid() {
			return nil, fmt.Errorf("%w: layer %d: %q", ErrActivation, i, ls.Activation)
		}
		rows := len(ls.Weights)
		if rows == 0 || len(ls.Bias) != rows {
			return nil, fmt.Errorf("%w: layer %d has %d weight rows and %d biases", ErrShape, i, rows, len(ls.Bias))
		}
		data := make([]float64, 0, rows*width)
		for r, row := range ls.Weights {
			if len(row) != width {
				return nil, fmt.Errorf("%w: layer %d row %d has %d columns, want %d", ErrShape, i, r, len(row), width)
			}
			data = append(data, row...)
		}
		bias := make([]float64, rows)
		copy(bias, ls.Bias)
		m.layers = append(m.layers, layer{
			w:   mat.NewDense(rows, width, data),
			b:   mat.NewVecDense(rows, bias),
			act: ls.Activation,
		})
		width = rows
	}
	return m, nil
}

// Load reads a network from a YAML file.
func Load(path string) (*MLP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("nn: parse %s: %w", path, err)
	}
	m, err := New(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *MLP) Inputs() int { return m.inputs }

func (m *MLP) Outputs() int {
	r, _ := m.layers[len(m.layers)-1].w.Dims()
	return r
}

// Forward evaluates the network on x.
func (m *MLP) Forward(x []float64) ([]float64, error) {
	if len(x) != m.inputs {
		return nil, fmt.Errorf("%w: got %d inputs, want %d", ErrShape, len(x), m.inputs)
	}
	in := make([]float64, len(x))
	copy(in, x)
	v := mat.NewVecDense(len(in), in)

	for _, l := range m.layers {
		rows, _ := l.w.Dims()
		out := mat.NewVecDense(rows, nil)
		out.MulVec(l.w, v)
		out.AddVec(out, l.b)
		for i := 0; i < rows; i++ {
			out.SetVec(i, l.act.apply(out.AtVec(i)))
		}
		v = out
	}
	return mat.Col(nil, 0, v), nil
}
