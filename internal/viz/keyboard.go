package viz

import "github.com/san-kum/quadai/internal/policy"

// DefaultHold is how many ticks a key stays down after its last press. It
// bridges the gap between a terminal's key repeats.
const DefaultHold = 8

// Keyboard turns key presses into held keys for a human player. It is
// driven from the Bubble Tea update loop and is not safe for concurrent use.
type Keyboard struct {
	hold int
	tick int
	last map[policy.Keys]int
}

func NewKeyboard(hold int) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{hold: hold, last: make(map[policy.Keys]int)}
}

var keyNames = map[string]policy.Keys{
	"up": policy.KeyUp, "w": policy.KeyUp,
	"down": policy.KeyDown, "s": policy.KeyDown,
	"left": policy.KeyLeft, "a": policy.KeyLeft,
	"right": policy.KeyRight, "d": policy.KeyRight,
}

// KeyFor maps a Bubble Tea key name to a direction.
func KeyFor(name string) (policy.Keys, bool) {
	k, ok := keyNames[name]
	return k, ok
}

var opposite = map[policy.Keys]policy.Keys{
	policy.KeyUp:    policy.KeyDown,
	policy.KeyDown:  policy.KeyUp,
	policy.KeyLeft:  policy.KeyRight,
	policy.KeyRight: policy.KeyLeft,
}

// Press marks key as held from the current tick. Pressing a direction
// releases its opposite.
func (k *Keyboard) Press(key policy.Keys) {
	k.last[key] = k.tick
	delete(k.last, opposite[key])
}

// Advance moves the keyboard clock on by one tick.
func (k *Keyboard) Advance() { k.tick++ }

func (k *Keyboard) Release() {
	for key := range k.last {
		delete(k.last, key)
	}
}

func (k *Keyboard) Pressed() policy.Keys {
	var held policy.Keys
	for key, at := range k.last {
		if k.tick-at < k.hold {
			held |= key
		}
	}
	return held
}
