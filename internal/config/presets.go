package config

import "sort"

func roster(sac ...PlayerConfig) []PlayerConfig {
	players := []PlayerConfig{
		{Name: "Human", Kind: KindHuman, Alpha: 1},
		{Name: "PID", Kind: KindPID, Alpha: 0.5},
	}
	return append(players, sac...)
}

const (
	sacV1 = "models/sac_v1.yaml"
	sacV2 = "models/sac_v2.yaml"
	dqn   = "models/dqn.yaml"
)

func preset(name, title, desc string, size, targets, margin int, players []PlayerConfig) *Config {
	return &Config{
		Preset:      name,
		Simulation:  title,
		Description: desc,
		Seed:        DefaultSeed,
		TimeLimit:   DefaultTimeLimit,
		Arena:       ArenaConfig{Width: size, Height: size},
		Targets:     TargetConfig{Count: targets, Margin: margin},
		Physics:     DefaultPhysics(),
		Rules:       DefaultRules(),
		Players:     players,
		ResultsDir:  "results",
		LogLevel:    "info",
		LogEncoding: "console",
	}
}

var Presets = map[string]*Config{
	"sim1": preset("sim1", "Sim-1", "Human, PID, SAC and DQN in the baseline arena.", 800, 100, 200,
		roster(
			PlayerConfig{Name: "SAC", Kind: KindSAC, Model: sacV2, Alpha: 0.5},
			PlayerConfig{Name: "DQN", Kind: KindDQN, Model: dqn, Alpha: 0.5},
		)),
	"sim2": preset("sim2", "Sim-2", "Human, PID and two SAC variants in a larger arena.", 900, 200, 50,
		roster(
			PlayerConfig{Name: "SAC1", Kind: KindSAC, Model: sacV1, Alpha: 0.5},
			PlayerConfig{Name: "SAC2", Kind: KindSAC, Model: sacV2, Alpha: 0.5},
		)),
	"sim3": preset("sim3", "Sim-3", "Like Sim-1 with a bigger arena and more targets.", 950, 150, 50,
		roster(
			PlayerConfig{Name: "SAC", Kind: KindSAC, Model: sacV2, Alpha: 0.5},
			PlayerConfig{Name: "DQN", Kind: KindDQN, Model: dqn, Alpha: 0.5},
		)),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
