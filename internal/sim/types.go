// Package sim runs the interactive multi-agent race: every player flies its
// own drone through the same course until one of them finishes it or the
// time limit runs out.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/lifecycle"
	"github.com/san-kum/quadai/internal/policy"
	"go.uber.org/zap"
)

var (
	ErrNoPlayers        = errors.New("sim: no players")
	ErrInvalidPlayer    = errors.New("sim: invalid player")
	ErrInvalidTimeLimit = errors.New("sim: time limit must be positive")
	ErrRunOver          = errors.New("sim: run is over")
)

// Player families, as reported in results.
const (
	FamilyHuman = "Human"
	FamilyPID   = "PID"
	FamilySAC   = "SAC"
	FamilyDQN   = "DQN"
)

type Player struct {
	Name      string
	Family    string
	Policy    policy.Policy
	Constants dynamo.Constants
	Alpha     float64 // render opacity
}

func (p Player) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlayer)
	}
	if p.Policy == nil {
		return fmt.Errorf("%w: %s has no policy", ErrInvalidPlayer, p.Name)
	}
	if err := p.Constants.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPlayer, p.Name, err)
	}
	return nil
}

// Event is a lifecycle change of one agent.
type Event struct {
	RunID   uuid.UUID
	Tick    int
	Player  string
	Outcome lifecycle.Outcome
	Score   int
}

type Observer interface {
	OnEvent(e Event)
}

type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Context carries the process-wide collaborators of a run. Callers build it
// once and pass it in; sim keeps no globals.
type Context struct {
	Logger   *zap.Logger
	Observer Observer
	Rng      *rand.Rand
}

func NewContext(logger *zap.Logger, seed int64) Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Context{Logger: logger, Rng: rand.New(rand.NewSource(seed))}
}

func (c Context) withDefaults() Context {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Rng == nil {
		c.Rng = rand.New(rand.NewSource(1))
	}
	return c
}

// Reason says why a run ended.
type Reason int

const (
	ReasonRunning Reason = iota
	ReasonFinished
	ReasonTimeLimit
	ReasonCancelled
)

func (r Reason) String() string {
	switch r {
	case ReasonRunning:
		return "running"
	case ReasonFinished:
		return "finished"
	case ReasonTimeLimit:
		return "time_limit"
	case ReasonCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// ParseReason reverses String. Unknown names read as ReasonRunning.
func ParseReason(s string) Reason {
	for _, r := range []Reason{ReasonFinished, ReasonTimeLimit, ReasonCancelled} {
		if r.String() == s {
			return r
		}
	}
	return ReasonRunning
}

type Score struct {
	Name     string
	Family   string
	Score    int
	Deaths   int
	Metrics  map[string]float64
	Timeline []float64 // score sampled once per second
}

type Result struct {
	RunID      uuid.UUID
	Simulation string
	TimeLimit  float64
	Elapsed    float64
	Reason     Reason
	Winner     string // empty unless a player finished the course
	Scores     []Score
}
