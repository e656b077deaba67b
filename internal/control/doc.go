// Package control provides the PID feedback primitive used by drone autopilots.
//
//	pid := control.NewPID(0.2, 0, 0.2, control.WithSaturation(25, -25))
//	out, err := pid.Compute(errX, 1.0/60)
//
// Each controller carries its own integral and derivative memory; callers
// that fly several drones own one controller per drone and loop.
package control
