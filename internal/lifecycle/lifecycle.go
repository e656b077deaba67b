// Package lifecycle tracks a drone's progress through a course: which target
// it is chasing, whether it is alive and when it comes back after leaving
// the play area.
package lifecycle

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/quadai/internal/course"
	"github.com/san-kum/quadai/internal/dynamo"
)

var ErrInvalidRules = errors.New("lifecycle: invalid rules")

const (
	DefaultReachRadius  = 50.0
	DefaultLossRadius   = 1000.0
	DefaultRespawnDelay = 3.0
)

// Rules are the distance and timing thresholds shared by the interactive
// race and the training environments.
type Rules struct {
	ReachRadius  float64
	LossRadius   float64
	RespawnDelay float64 // seconds
}

func DefaultRules() Rules {
	return Rules{
		ReachRadius:  DefaultReachRadius,
		LossRadius:   DefaultLossRadius,
		RespawnDelay: DefaultRespawnDelay,
	}
}

func (r Rules) Validate() error {
	if r.ReachRadius <= 0 || r.LossRadius <= r.ReachRadius {
		return fmt.Errorf("%w: need 0 < reach (%g) < loss (%g)", ErrInvalidRules, r.ReachRadius, r.LossRadius)
	}
	if r.RespawnDelay < 0 {
		return fmt.Errorf("%w: negative respawn delay %g", ErrInvalidRules, r.RespawnDelay)
	}
	return nil
}

// RespawnTicks is the respawn delay in whole ticks.
func (r Rules) RespawnTicks() int {
	return int(math.Round(r.RespawnDelay * dynamo.TickRate))
}

// Zone classifies a distance to the current target.
type Zone int

const (
	ZoneInside Zone = iota
	ZoneReached
	ZoneLost
)

func (r Rules) Classify(dist float64) Zone {
	switch {
	case dist < r.ReachRadius:
		return ZoneReached
	case dist > r.LossRadius:
		return ZoneLost
	}
	return ZoneInside
}

type Status int

const (
	Active Status = iota
	Dead
)

func (s Status) String() string {
	if s == Dead {
		return "dead"
	}
	return "active"
}

// Outcome is what a single tick did to an agent.
type Outcome int

const (
	Nothing Outcome = iota
	Reached
	Finished
	Died
	Waiting
	Respawned
)

func (o Outcome) String() string {
	switch o {
	case Nothing:
		return "nothing"
	case Reached:
		return "reached"
	case Finished:
		return "finished"
	case Died:
		return "died"
	case Waiting:
		return "waiting"
	case Respawned:
		return "respawned"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Agent struct {
	State         dynamo.KinematicState
	Status        Status
	TargetCounter int
	Deaths        int

	home         dynamo.Point
	respawnTicks int
}

// NewAgent places an active agent at rest on home, its spawn point.
func NewAgent(home dynamo.Point) *Agent {
	return &Agent{State: dynamo.AtRest(home), home: home}
}

func (a *Agent) Score() int { return a.TargetCounter }

func (a *Agent) Alive() bool { return a.Status == Active }

// RespawnTimer is the remaining dead time in seconds.
func (a *Agent) RespawnTimer() float64 {
	return float64(a.respawnTicks) / dynamo.TickRate
}

// Target returns the point the agent is chasing, or false once it has
// reached every target of c.
func (a *Agent) Target(c course.Course) (dynamo.Point, bool) {
	return c.At(a.TargetCounter)
}

func (a *Agent) Finished(c course.Course) bool {
	return a.TargetCounter >= c.Len()
}

// Evaluate applies the reach and loss rules after the agent's dynamics step.
// At most one target is credited per call.
func (a *Agent) Evaluate(c course.Course, r Rules) Outcome {
	if a.Status != Active {
		return Nothing
	}
	target, ok := a.Target(c)
	if !ok {
		return Nothing
	}

	switch r.Classify(a.State.Position().Dist(target)) {
	case ZoneReached:
		a.TargetCounter++
		if a.Finished(c) {
			return Finished
		}
		return Reached
	case ZoneLost:
		a.Kill(r)
		return Died
	}
	return Nothing
}

// Kill marks the agent dead for the rules' respawn delay. Its state is frozen
// where it died.
func (a *Agent) Kill(r Rules) {
	a.Status = Dead
	a.respawnTicks = r.RespawnTicks()
	a.Deaths++
}

// Countdown advances a dead agent's respawn timer by one tick and respawns it
// when the timer runs out.
func (a *Agent) Countdown() Outcome {
	if a.Status != Dead {
		return Nothing
	}
	a.respawnTicks--
	if a.respawnTicks > 0 {
		return Waiting
	}
	a.Respawn()
	return Respawned
}

// Respawn puts the agent back at its spawn point, level and at rest.
func (a *Agent) Respawn() {
	a.Status = Active
	a.respawnTicks = 0
	a.State = dynamo.AtRest(a.home)
}
