package sim

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// RosterFunc builds a fresh roster for one run of an ensemble. Policies keep
// per-run state so rosters are never shared between runs.
type RosterFunc func(seed int64) ([]Player, error)

// Ensemble plays the same configuration headless over consecutive seeds.
type Ensemble struct {
	ctx       Context
	cfg       Config
	roster    RosterFunc
	numRuns   int
	seedStart int64
}

func NewEnsemble(ctx Context, cfg Config, roster RosterFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{ctx: ctx, cfg: cfg, roster: roster, numRuns: numRuns, seedStart: seedStart}
}

// Run plays every seed concurrently. Results are in seed order. The
// context's Observer, if any, must be safe for concurrent use.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			seed := e.seedStart + int64(i)
			players, err := e.roster(seed)
			if err != nil {
				return err
			}

			rc := e.ctx
			rc.Rng = rand.New(rand.NewSource(seed))
			run, err := New(rc, e.cfg, players)
			if err != nil {
				return err
			}
			results[i], err = run.RunToEnd(ctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
