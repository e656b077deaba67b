package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadai/internal/course"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/lifecycle"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
	"github.com/san-kum/quadai/internal/sim"
)

// fixedThrust applies the same thruster pair every tick.
type fixedThrust struct {
	left, right float64
	acts        int
	resets      int
}

func (f *fixedThrust) Name() string                  { return "fixed" }
func (f *fixedThrust) ObservationKind() observe.Kind { return observe.KindNone }
func (f *fixedThrust) Reset()                        { f.resets++ }

func (f *fixedThrust) Act([]float64) (mixer.Action, error) {
	f.acts++
	return mixer.ThrustAction(f.left, f.right), nil
}

type failing struct{}

func (failing) Name() string                  { return "failing" }
func (failing) ObservationKind() observe.Kind { return observe.KindFeatures }
func (failing) Act([]float64) (mixer.Action, error) {
	return mixer.Action{}, errors.New("inference failed")
}

var _ = Describe("Run", func() {
	var (
		c      dynamo.Constants
		cfg    sim.Config
		events []sim.Event
		ctx    sim.Context
	)

	center := dynamo.Point{X: 400, Y: 400}

	hover := func(name string) sim.Player {
		return sim.Player{Name: name, Family: sim.FamilyPID, Policy: &fixedThrust{left: c.ThrusterMean, right: c.ThrusterMean}, Constants: c}
	}

	BeforeEach(func() {
		c = dynamo.DefaultConstants()
		cfg = sim.Config{
			Name:      "test",
			Width:     800,
			Height:    800,
			TimeLimit: 100,
			Rules:     lifecycle.DefaultRules(),
		}
		events = nil
		ctx = sim.NewContext(nil, 1)
		ctx.Observer = sim.ObserverFunc(func(e sim.Event) { events = append(events, e) })
	})

	Describe("construction", func() {
		It("rejects an empty roster", func() {
			_, err := sim.New(ctx, cfg, nil)
			Expect(err).To(MatchError(sim.ErrNoPlayers))
		})

		It("rejects a non-positive time limit", func() {
			cfg.TimeLimit = 0
			_, err := sim.New(ctx, cfg, []sim.Player{hover("a")})
			Expect(errors.Is(err, sim.ErrInvalidTimeLimit)).To(BeTrue())
		})

		It("rejects players without a policy", func() {
			_, err := sim.New(ctx, cfg, []sim.Player{{Name: "a", Constants: c}})
			Expect(errors.Is(err, sim.ErrInvalidPlayer)).To(BeTrue())
		})

		It("rejects a negative target count", func() {
			cfg.Targets = -1
			cfg.Area = course.Inset(800, 800, 200)
			_, err := sim.New(ctx, cfg, []sim.Player{hover("a")})
			Expect(err).To(MatchError(course.ErrTargetCount))
		})

		It("generates the course from the area when none is given", func() {
			cfg.Targets = 10
			cfg.Area = course.Inset(800, 800, 200)
			run, err := sim.New(ctx, cfg, []sim.Player{hover("a")})
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Course().Len()).To(Equal(10))
			for _, p := range run.Course().Points() {
				Expect(p.X).To(BeNumerically(">=", 200))
				Expect(p.X).To(BeNumerically("<", 600))
			}
		})

		It("spawns every agent at rest in the arena center", func() {
			cfg.Course = course.New([]dynamo.Point{{X: 100, Y: 100}})
			run, err := sim.New(ctx, cfg, []sim.Player{hover("a"), hover("b")})
			Expect(err).NotTo(HaveOccurred())
			for _, a := range run.Agents() {
				Expect(a.Life.State).To(Equal(dynamo.AtRest(center)))
				Expect(a.Life.Alive()).To(BeTrue())
			}
		})
	})

	Describe("race termination", func() {
		It("ends when any agent finishes and credits every agent of that tick", func() {
			cfg.Course = course.New([]dynamo.Point{center})
			falling := sim.Player{Name: "falling", Family: sim.FamilyDQN, Policy: &fixedThrust{}, Constants: c}
			run, err := sim.New(ctx, cfg, []sim.Player{hover("hover"), falling})
			Expect(err).NotTo(HaveOccurred())

			Expect(run.Tick()).To(Succeed())
			Expect(run.Done()).To(BeTrue())
			Expect(run.Reason()).To(Equal(sim.ReasonFinished))
			Expect(run.Winner()).To(Equal("hover"))

			res := run.Result()
			Expect(res.Scores).To(HaveLen(2))
			Expect(res.Scores[0].Score).To(Equal(1))
			Expect(res.Scores[1].Score).To(Equal(1))
			Expect(run.Tick()).To(MatchError(sim.ErrRunOver))
		})

		It("stops the slower agent short of the course", func() {
			cfg.Course = course.New([]dynamo.Point{center, {X: 400, Y: 355}})
			diver := sim.Player{Name: "diver", Family: sim.FamilySAC, Policy: &fixedThrust{left: -1, right: -1}, Constants: c}
			run, err := sim.New(ctx, cfg, []sim.Player{hover("hover"), diver})
			Expect(err).NotTo(HaveOccurred())

			res, err := run.RunToEnd(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Ticks()).To(Equal(2))
			Expect(res.Winner).To(Equal("hover"))
			Expect(res.Scores[0].Score).To(Equal(2))
			Expect(res.Scores[1].Score).To(Equal(1))
		})

		It("ends on the first tick past the time limit", func() {
			cfg.TimeLimit = 1
			cfg.Course = course.New([]dynamo.Point{{X: 400, Y: 200}})
			run, err := sim.New(ctx, cfg, []sim.Player{hover("hover")})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < dynamo.TickRate; i++ {
				Expect(run.Tick()).To(Succeed())
			}
			Expect(run.Done()).To(BeFalse())

			Expect(run.Tick()).To(Succeed())
			Expect(run.Done()).To(BeTrue())
			Expect(run.Reason()).To(Equal(sim.ReasonTimeLimit))
			Expect(run.Winner()).To(BeEmpty())
			Expect(run.Remaining()).To(BeZero())

			res := run.Result()
			Expect(res.Elapsed).To(BeNumerically("~", 61.0/60, 1e-12))
			Expect(res.Scores[0].Timeline).To(Equal([]float64{0}))
		})
	})

	Describe("death and respawn", func() {
		It("freezes a lost agent for 180 ticks and respawns it at the center", func() {
			cfg.Course = course.New([]dynamo.Point{{X: 400, Y: 300}})
			p := &fixedThrust{}
			run, err := sim.New(ctx, cfg, []sim.Player{{Name: "falling", Family: sim.FamilyDQN, Policy: p, Constants: c}})
			Expect(err).NotTo(HaveOccurred())
			agent := run.Agents()[0]

			for agent.Life.Alive() {
				Expect(run.Tick()).To(Succeed())
			}
			Expect(run.Ticks()).To(Equal(150))
			Expect(agent.Life.Deaths).To(Equal(1))
			frozen := agent.Life.State

			for i := 0; i < 179; i++ {
				Expect(run.Tick()).To(Succeed())
				Expect(agent.Life.Alive()).To(BeFalse())
				Expect(agent.Life.State).To(Equal(frozen))
			}
			Expect(p.acts).To(Equal(150))

			Expect(run.Tick()).To(Succeed())
			Expect(agent.Life.Alive()).To(BeTrue())
			Expect(agent.Life.State).To(Equal(dynamo.AtRest(center)))
			Expect(p.resets).To(Equal(1))

			var outcomes []lifecycle.Outcome
			for _, e := range events {
				outcomes = append(outcomes, e.Outcome)
			}
			Expect(outcomes).To(Equal([]lifecycle.Outcome{lifecycle.Died, lifecycle.Respawned}))
			Expect(events[0].Tick).To(Equal(150))
			Expect(events[1].Tick).To(Equal(330))

			res := run.Result()
			Expect(res.Scores[0].Deaths).To(Equal(1))
			Expect(res.Scores[0].Metrics["deaths"]).To(Equal(1.0))
		})
	})

	Describe("policy failures", func() {
		It("surfaces the error with the player's name", func() {
			cfg.Course = course.New([]dynamo.Point{{X: 100, Y: 100}})
			run, err := sim.New(ctx, cfg, []sim.Player{{Name: "broken", Family: sim.FamilySAC, Policy: failing{}, Constants: c}})
			Expect(err).NotTo(HaveOccurred())

			err = run.Tick()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("broken"))
		})
	})

	Describe("cancellation", func() {
		It("stops between ticks when the context is done", func() {
			cfg.Course = course.New([]dynamo.Point{{X: 100, Y: 100}})
			run, err := sim.New(ctx, cfg, []sim.Player{hover("hover")})
			Expect(err).NotTo(HaveOccurred())

			cctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := run.RunToEnd(cctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Reason).To(Equal(sim.ReasonCancelled))
			Expect(run.Ticks()).To(BeZero())
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("plays one run per seed", func() {
		c := dynamo.DefaultConstants()
		cfg := sim.Config{
			Name:      "ensemble",
			Width:     800,
			Height:    800,
			TimeLimit: 0.5,
			Rules:     lifecycle.DefaultRules(),
			Targets:   5,
			Area:      course.Inset(800, 800, 200),
		}
		roster := func(int64) ([]sim.Player, error) {
			return []sim.Player{{Name: "hover", Family: sim.FamilyPID, Policy: &fixedThrust{left: c.ThrusterMean, right: c.ThrusterMean}, Constants: c}}, nil
		}

		results, err := sim.NewEnsemble(sim.NewContext(nil, 0), cfg, roster, 3, 10).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Simulation).To(Equal("ensemble"))
			Expect(r.Scores).To(HaveLen(1))
		}
	})
})

var _ = DescribeTable("ParseReason",
	func(r sim.Reason) {
		Expect(sim.ParseReason(r.String())).To(Equal(r))
	},
	Entry("finished", sim.ReasonFinished),
	Entry("time limit", sim.ReasonTimeLimit),
	Entry("cancelled", sim.ReasonCancelled),
	Entry("running", sim.ReasonRunning),
)
