package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/quadai/internal/config"
	"github.com/san-kum/quadai/internal/registry"
	"github.com/san-kum/quadai/internal/storage"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	reg := registry.NewRegistry(nil, nil)
	reg.SetModelDir(t.TempDir())
	return &Runner{Registry: reg, Store: storage.New(t.TempDir())}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: smoke
steps:
  - preset: sim2
    time_limit: 0.5
    repeat: 2
    seed: 7
    params:
      gravity: 0.1
    save: true
  - preset: sim3
    time_limit: 0.25
`), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, 0.1, sc.Steps[0].Params["gravity"])
	assert.True(t, sc.Steps[0].Save)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("name: nothing\n"), 0644))
	_, err = LoadScenario(empty)
	assert.Error(t, err)
}

func TestApplyParams(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, ApplyParams(cfg, map[string]float64{"gravity": 0.1, "respawn_delay": 1}))
	assert.Equal(t, 0.1, cfg.Physics.Gravity)
	assert.Equal(t, 1.0, cfg.Rules.RespawnDelay)

	err := ApplyParams(cfg, map[string]float64{"wind": 3})
	assert.ErrorIs(t, err, ErrUnknownParam)
	assert.Contains(t, Params(), "thruster_mean")
}

func TestRunScenario(t *testing.T) {
	r := newRunner(t)
	sc := &Scenario{Name: "smoke", Steps: []ScenarioStep{
		{Preset: "sim2", TimeLimit: 0.5, Repeat: 2, Seed: 7, Save: true},
		{Preset: "sim3", TimeLimit: 0.25},
	}}

	results, err := r.RunScenario(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Sim-2", results[0].Preset)
	assert.Len(t, results[0].Results, 2)
	assert.Len(t, results[1].Results, 1)
	assert.Len(t, results[0].Results[0].Scores, 4)

	rows, err := r.Store.List()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunScenarioStopsOnBadStep(t *testing.T) {
	r := newRunner(t)
	sc := &Scenario{Steps: []ScenarioStep{
		{Preset: "sim1", TimeLimit: 0.25},
		{Preset: "sim9", TimeLimit: 0.25},
	}}
	results, err := r.RunScenario(context.Background(), sc)
	assert.Error(t, err)
	assert.Len(t, results, 1)
}

func TestRunSweep(t *testing.T) {
	r := newRunner(t)
	res, err := r.RunSweep(context.Background(), &ParameterSweep{
		Preset:    "sim1",
		ParamName: "reach_radius",
		ParamMin:  20,
		ParamMax:  60,
		NumSteps:  3,
		TimeLimit: 0.5,
		Repeat:    2,
		Seed:      3,
	})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, 20.0, res[0].ParamValue)
	assert.Equal(t, 40.0, res[1].ParamValue)
	assert.Equal(t, 60.0, res[2].ParamValue)
	assert.Contains(t, res[0].MeanScores, "PID")

	_, err = r.RunSweep(context.Background(), &ParameterSweep{Preset: "sim1", ParamName: "wind", NumSteps: 2})
	assert.ErrorIs(t, err, ErrUnknownParam)
	_, err = r.RunSweep(context.Background(), &ParameterSweep{Preset: "sim1", ParamName: "gravity", NumSteps: 1})
	assert.Error(t, err)
}
