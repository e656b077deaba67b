package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/san-kum/quadai/internal/course"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/lifecycle"
	"github.com/san-kum/quadai/internal/metrics"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
	"github.com/san-kum/quadai/internal/policy"
	"go.uber.org/zap"
)

type Config struct {
	Name          string
	Width, Height int
	TimeLimit     float64 // seconds
	Rules         lifecycle.Rules

	// Course is raced as given when non-empty. Otherwise Targets points are
	// drawn from Area with the context's rng.
	Course  course.Course
	Targets int
	Area    course.Area
}

func (c Config) validate() error {
	if !(c.TimeLimit > 0) || math.IsInf(c.TimeLimit, 1) {
		return fmt.Errorf("%w: %g", ErrInvalidTimeLimit, c.TimeLimit)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("sim: arena %dx%d must be positive", c.Width, c.Height)
	}
	if c.Targets < 0 {
		return fmt.Errorf("%w: %d", course.ErrTargetCount, c.Targets)
	}
	return c.Rules.Validate()
}

// Agent is one player's drone in a run.
type Agent struct {
	Player Player
	Life   *lifecycle.Agent

	// thruster commands applied on the last live tick
	Left, Right float64

	metrics  []metrics.Metric
	timeline []float64
}

// Timeline is the agent's score sampled once per elapsed second.
func (a *Agent) Timeline() []float64 { return a.timeline }

type Run struct {
	id     uuid.UUID
	ctx    Context
	cfg    Config
	course course.Course
	agents []*Agent

	ticks      int
	limitTicks int
	reason     Reason
	winner     string
}

func New(ctx Context, cfg Config, players []Player) (*Run, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	for _, p := range players {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	ctx = ctx.withDefaults()

	c := cfg.Course
	if c.Len() == 0 {
		var err error
		if c, err = course.Generate(ctx.Rng, cfg.Targets, cfg.Area); err != nil {
			return nil, fmt.Errorf("sim: course: %w", err)
		}
	}

	r := &Run{
		id:         uuid.New(),
		ctx:        ctx,
		cfg:        cfg,
		course:     c,
		limitTicks: int(math.Round(cfg.TimeLimit * dynamo.TickRate)),
	}
	home := dynamo.Point{X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2}
	for _, p := range players {
		r.agents = append(r.agents, &Agent{
			Player:  p,
			Life:    lifecycle.NewAgent(home),
			Left:    p.Constants.ThrusterMean,
			Right:   p.Constants.ThrusterMean,
			metrics: metrics.Standard(p.Constants),
		})
	}

	r.ctx.Logger = r.ctx.Logger.With(zap.String("run_id", r.id.String()), zap.String("simulation", cfg.Name))
	r.ctx.Logger.Info("run started",
		zap.Int("players", len(players)),
		zap.Int("targets", c.Len()),
		zap.Float64("time_limit", cfg.TimeLimit))
	return r, nil
}

func (r *Run) ID() uuid.UUID         { return r.id }
func (r *Run) Config() Config        { return r.cfg }
func (r *Run) Course() course.Course { return r.course }
func (r *Run) Agents() []*Agent      { return r.agents }
func (r *Run) Ticks() int            { return r.ticks }
func (r *Run) Done() bool            { return r.reason != ReasonRunning }
func (r *Run) Reason() Reason        { return r.reason }
func (r *Run) Winner() string        { return r.winner }
func (r *Run) Elapsed() float64      { return float64(r.ticks) / dynamo.TickRate }
func (r *Run) Remaining() float64    { return math.Max(0, r.cfg.TimeLimit-r.Elapsed()) }

// Tick advances the clock by one tick and then every agent in roster order.
// Once all agents have moved, a finisher or an elapsed time past the limit
// ends the run.
func (r *Run) Tick() error {
	if r.Done() {
		return ErrRunOver
	}
	r.ticks++

	for _, a := range r.agents {
		outcome, err := r.advance(a)
		if err != nil {
			return fmt.Errorf("sim: tick %d: %s: %w", r.ticks, a.Player.Name, err)
		}

		sample := metrics.Sample{State: a.Life.State, Left: a.Left, Right: a.Right, Alive: a.Life.Alive(), Tick: r.ticks}
		for _, m := range a.metrics {
			m.Observe(sample)
		}
		if r.ticks%dynamo.TickRate == 0 {
			a.timeline = append(a.timeline, float64(a.Life.Score()))
		}

		if outcome == lifecycle.Finished && r.winner == "" {
			r.winner = a.Player.Name
		}
		r.emit(a, outcome)
	}

	switch {
	case r.winner != "":
		r.finish(ReasonFinished)
	case r.ticks > r.limitTicks:
		r.finish(ReasonTimeLimit)
	}
	return nil
}

func (r *Run) advance(a *Agent) (lifecycle.Outcome, error) {
	if !a.Life.Alive() {
		outcome := a.Life.Countdown()
		if outcome == lifecycle.Respawned {
			if rs, ok := a.Player.Policy.(policy.Resetter); ok {
				rs.Reset()
			}
		}
		return outcome, nil
	}

	var target *dynamo.Point
	if t, ok := a.Life.Target(r.course); ok {
		target = &t
	}
	obs := observe.Build(a.Player.Policy.ObservationKind(), a.Life.State, target)

	action, err := a.Player.Policy.Act(obs)
	if err != nil {
		return lifecycle.Nothing, err
	}
	left, right, err := mixer.Mix(action, a.Player.Constants)
	if err != nil {
		return lifecycle.Nothing, err
	}
	a.Left, a.Right = left, right
	a.Life.State = dynamo.Step(a.Life.State, left, right, a.Player.Constants)

	return a.Life.Evaluate(r.course, r.cfg.Rules), nil
}

func (r *Run) emit(a *Agent, outcome lifecycle.Outcome) {
	log := r.ctx.Logger
	switch outcome {
	case lifecycle.Nothing, lifecycle.Waiting:
		return
	case lifecycle.Finished:
		log.Info("course finished", zap.String("player", a.Player.Name), zap.Int("tick", r.ticks))
	default:
		log.Debug(outcome.String(),
			zap.String("player", a.Player.Name),
			zap.Int("tick", r.ticks),
			zap.Int("score", a.Life.Score()))
	}
	if r.ctx.Observer != nil {
		r.ctx.Observer.OnEvent(Event{
			RunID:   r.id,
			Tick:    r.ticks,
			Player:  a.Player.Name,
			Outcome: outcome,
			Score:   a.Life.Score(),
		})
	}
}

func (r *Run) finish(reason Reason) {
	r.reason = reason
	fields := []zap.Field{
		zap.Stringer("reason", reason),
		zap.Float64("elapsed", r.Elapsed()),
	}
	for _, a := range r.agents {
		fields = append(fields, zap.Int(a.Player.Name, a.Life.Score()))
	}
	r.ctx.Logger.Info("run ended", fields...)
}

// Stop ends a running run early, as when the front-end quits.
func (r *Run) Stop() {
	if !r.Done() {
		r.finish(ReasonCancelled)
	}
}

// RunToEnd ticks until the run is over, checking ctx between ticks.
func (r *Run) RunToEnd(ctx context.Context) (*Result, error) {
	for !r.Done() {
		if err := ctx.Err(); err != nil {
			r.Stop()
			return r.Result(), err
		}
		if err := r.Tick(); err != nil {
			return nil, err
		}
	}
	return r.Result(), nil
}

// Result snapshots the scores so far.
func (r *Run) Result() *Result {
	res := &Result{
		RunID:      r.id,
		Simulation: r.cfg.Name,
		TimeLimit:  r.cfg.TimeLimit,
		Elapsed:    r.Elapsed(),
		Reason:     r.reason,
		Winner:     r.winner,
	}
	for _, a := range r.agents {
		res.Scores = append(res.Scores, Score{
			Name:     a.Player.Name,
			Family:   a.Player.Family,
			Score:    a.Life.Score(),
			Deaths:   a.Life.Deaths,
			Metrics:  metrics.Values(a.metrics),
			Timeline: append([]float64(nil), a.timeline...),
		})
	}
	return res
}
