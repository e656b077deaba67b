package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Sim-1", cfg.Simulation)
	assert.Equal(t, DefaultTimeLimit, cfg.TimeLimit)
	require.NoError(t, cfg.Validate())
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		targets int
		margin  int
		players []string
	}{
		{"sim1", 800, 100, 200, []string{"Human", "PID", "SAC", "DQN"}},
		{"sim2", 900, 200, 50, []string{"Human", "PID", "SAC1", "SAC2"}},
		{"sim3", 950, 150, 50, []string{"Human", "PID", "SAC", "DQN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetPreset(tt.name)
			require.NotNil(t, cfg)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, tt.size, cfg.Arena.Width)
			assert.Equal(t, tt.size, cfg.Arena.Height)
			assert.Equal(t, tt.targets, cfg.Targets.Count)

			area := cfg.TargetArea()
			assert.Equal(t, tt.margin, area.MinX)
			assert.Equal(t, tt.size-tt.margin, area.MaxX)

			var names []string
			for _, p := range cfg.Players {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.players, names)
		})
	}

	assert.Nil(t, GetPreset("sim9"))
	assert.Equal(t, []string{"sim1", "sim2", "sim3"}, ListPresets())
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("sim1")
	cfg.Players[0].Name = "Pilot"
	cfg.Arena.Width = 10

	fresh := GetPreset("sim1")
	assert.Equal(t, "Human", fresh.Players[0].Name)
	assert.Equal(t, 800, fresh.Arena.Width)
}

func TestConstantsByKind(t *testing.T) {
	cfg := DefaultConfig()

	dqn := cfg.Constants(PlayerConfig{Kind: KindDQN})
	assert.Equal(t, dynamo.DiffAmplitudeFine, dqn.DiffAmplitude)

	sac := cfg.Constants(PlayerConfig{Kind: KindSAC})
	assert.Equal(t, dynamo.DiffAmplitudeCoarse, sac.DiffAmplitude)
	assert.Equal(t, dynamo.DefaultConstants(), sac)

	custom := cfg.Constants(PlayerConfig{Kind: KindHuman, DiffAmplitude: 0.01})
	assert.Equal(t, 0.01, custom.DiffAmplitude)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"odd time limit", func(c *Config) { c.TimeLimit = 150 }},
		{"zero arena", func(c *Config) { c.Arena.Width = 0 }},
		{"margin swallows arena", func(c *Config) { c.Targets.Margin = 400 }},
		{"no targets", func(c *Config) { c.Targets.Count = 0 }},
		{"no players", func(c *Config) { c.Players = nil }},
		{"unknown kind", func(c *Config) { c.Players[1].Kind = "ppo" }},
		{"duplicate name", func(c *Config) { c.Players[1].Name = "Human" }},
		{"zero mass", func(c *Config) { c.Physics.Mass = 0 }},
		{"reach past loss", func(c *Config) { c.Rules.ReachRadius = 2000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateTimeLimit(t *testing.T) {
	cfg := DefaultConfig()
	for _, l := range TimeLimits {
		assert.NoError(t, cfg.ValidateTimeLimit(l))
	}
	assert.ErrorIs(t, cfg.ValidateTimeLimit(30), ErrInvalid)

	cfg.AllowAnyTime = true
	assert.NoError(t, cfg.ValidateTimeLimit(30))
	assert.ErrorIs(t, cfg.ValidateTimeLimit(0), ErrInvalid)
}

func TestLoadOverlaysPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadai.yaml")
	doc := `preset: sim2
time_limit: 250
seed: 7
targets:
  count: 20
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sim-2", cfg.Simulation)
	assert.Equal(t, 900, cfg.Arena.Width)
	assert.Equal(t, 250.0, cfg.TimeLimit)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 20, cfg.Targets.Count)
	assert.Equal(t, 50, cfg.Targets.Margin)
	assert.Len(t, cfg.Players, 4)
	require.NoError(t, cfg.Validate())
}

func TestLoadPartialPIDGains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadai.yaml")
	doc := `preset: sim1
players:
  - name: PID
    kind: pid
    pid:
      x:
        kp: 0.3
        kd: 0.2
        max: 25
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	gains := cfg.Players[0].PID
	require.NotNil(t, gains)
	require.NotNil(t, gains.X)
	assert.Equal(t, 0.3, gains.X.Kp)
	require.NotNil(t, gains.X.Max)
	assert.Equal(t, 25.0, *gains.X.Max)
	assert.Nil(t, gains.X.Min)
	assert.Nil(t, gains.Angle)
	assert.Nil(t, gains.Y)
	assert.Nil(t, gains.YSpeed)
}

func TestLoadUnknownPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadai.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preset: sim9\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadai.yaml")
	cfg := GetPreset("sim3")
	hi, lo := 25.0, -25.0
	cfg.Players[1].PID = &PIDGains{X: &LoopGains{Kp: 0.3, Max: &hi, Min: &lo}}

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
