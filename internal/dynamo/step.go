package dynamo

import "math"

// Step advances s by one logical tick under the given thruster commands.
//
// Accelerations are recomputed from scratch, velocities integrate first and
// positions then integrate the updated velocities. The tick is a unit step;
// there is no dt. Thruster values are used as given, without clamping.
func Step(s KinematicState, left, right float64, c Constants) KinematicState {
	rad := s.A * math.Pi / 180
	total := left + right

	s.Xdd = -total * math.Sin(rad) / c.Mass
	s.Ydd = c.Gravity - total*math.Cos(rad)/c.Mass
	s.Add = c.Arm * (right - left) / c.Mass

	s.Xd += s.Xdd
	s.Yd += s.Ydd
	s.Ad += s.Add

	s.X += s.Xd
	s.Y += s.Yd
	s.A += s.Ad

	return s
}
