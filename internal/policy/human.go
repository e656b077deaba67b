package policy

import (
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
)

// Keys is the set of direction inputs held during a tick.
type Keys uint8

const (
	KeyUp Keys = 1 << iota
	KeyDown
	KeyLeft
	KeyRight
)

func (k Keys) Has(key Keys) bool { return k&key != 0 }

var keyActions = []struct {
	key    Keys
	action mixer.Discrete
}{
	{KeyUp, mixer.Up},
	{KeyDown, mixer.Down},
	{KeyLeft, mixer.YawLeft},
	{KeyRight, mixer.YawRight},
}

// Input reports which keys a person is holding. Implementations live with the
// front-end that captures them.
type Input interface {
	Pressed() Keys
}

// Idle is an Input with nothing pressed.
type Idle struct{}

func (Idle) Pressed() Keys { return 0 }

type Human struct {
	name      string
	input     Input
	constants dynamo.Constants
}

func NewHuman(name string, input Input, c dynamo.Constants) *Human {
	if input == nil {
		input = Idle{}
	}
	return &Human{name: name, input: input, constants: c}
}

func (h *Human) Name() string                  { return h.name }
func (h *Human) ObservationKind() observe.Kind { return observe.KindNone }

// Act sums the deltas of every held key on top of the hover thrust.
func (h *Human) Act(_ []float64) (mixer.Action, error) {
	pressed := h.input.Pressed()
	left, right := h.constants.ThrusterMean, h.constants.ThrusterMean
	for _, ka := range keyActions {
		if pressed.Has(ka.key) {
			dl, dr := mixer.Delta(ka.action, h.constants)
			left += dl
			right += dr
		}
	}
	return mixer.ThrustAction(left, right), nil
}
