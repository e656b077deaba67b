// Package viz is the terminal front-end for a race.
//
// [App] is a Bubble Tea program that walks through three screens: a menu
// for the race length, the race itself drawn on a Braille [Canvas], and a
// score table once the run is over. Human players read the arrow keys (or
// WASD) through a [Keyboard].
//
// # Key Bindings
//
//	↑ / W   - more thrust
//	↓ / S   - less thrust
//	← / A   - yaw left
//	→ / D   - yaw right
//	Q / Esc - abandon the race
//
// Terminals report key presses but not releases, so a key counts as held
// for a short window after its last press or auto-repeat.
package viz
