// Package dynamo provides the simulation kernel for a planar thrust-vectored drone.
//
// The package defines the state and physical constants of one drone and the
// pure step function that advances it by one logical tick:
//
//   - [KinematicState]: position, velocity and acceleration, linear and angular
//   - [Constants]: gravity, mass, arm length and thruster scaling
//   - [Step]: semi-implicit (symplectic) Euler update, one tick at a time
//
// # Example
//
//	c := dynamo.DefaultConstants()
//	s := dynamo.AtRest(dynamo.Point{X: 400, Y: 400})
//	s = dynamo.Step(s, c.ThrusterMean, c.ThrusterMean, c)
//
// # Thread Safety
//
// Step is a pure function of its arguments. Independent states may be
// stepped from different goroutines without synchronization.
package dynamo
