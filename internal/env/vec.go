package env

import (
	"context"
	"fmt"

	"github.com/san-kum/quadai/internal/mixer"
	"golang.org/x/sync/errgroup"
)

// TerminalObservation is the Info key holding the last observation of an
// episode that VecEnv reset automatically.
const TerminalObservation = "terminal_observation"

// VecEnv steps independent environments side by side. A finished
// environment is reset on the spot and its result carries the reset
// observation, with the terminal one under Info[TerminalObservation].
type VecEnv struct {
	envs []*Env
}

// NewVec builds n environments seeded seed, seed+1, ...
func NewVec(cfg Config, n int, seed int64) (*VecEnv, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d environments", ErrInvalidConfig, n)
	}
	v := &VecEnv{envs: make([]*Env, n)}
	for i := range v.envs {
		e, err := New(cfg, seed+int64(i))
		if err != nil {
			return nil, err
		}
		v.envs[i] = e
	}
	return v, nil
}

func (v *VecEnv) Len() int       { return len(v.envs) }
func (v *VecEnv) Env(i int) *Env { return v.envs[i] }

func (v *VecEnv) Reset() [][]float64 {
	obs := make([][]float64, len(v.envs))
	for i, e := range v.envs {
		obs[i] = e.Reset()
	}
	return obs
}

// Step applies actions[i] to environment i concurrently.
func (v *VecEnv) Step(ctx context.Context, actions []mixer.Action) ([]StepResult, error) {
	if len(actions) != len(v.envs) {
		return nil, fmt.Errorf("%w: %d actions for %d environments", ErrInvalidAction, len(actions), len(v.envs))
	}

	results := make([]StepResult, len(v.envs))
	g, ctx := errgroup.WithContext(ctx)
	for i, e := range v.envs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Step(actions[i])
			if err != nil {
				return fmt.Errorf("env %d: %w", i, err)
			}
			if res.Done {
				res.Info[TerminalObservation] = res.Observation
				res.Observation = e.Reset()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
