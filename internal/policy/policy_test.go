package policy

import (
	"errors"
	"testing"

	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type heldKeys Keys

func (k heldKeys) Pressed() Keys { return Keys(k) }

func TestHumanKeys(t *testing.T) {
	c := dynamo.DefaultConstants()
	mean, amp, diff := c.ThrusterMean, c.ThrusterAmplitude, c.DiffAmplitude

	tests := []struct {
		name        string
		keys        Keys
		left, right float64
	}{
		{"idle", 0, mean, mean},
		{"up", KeyUp, mean + amp, mean + amp},
		{"down", KeyDown, mean - amp, mean - amp},
		{"right", KeyRight, mean + diff, mean - diff},
		{"left", KeyLeft, mean - diff, mean + diff},
		{"up and right", KeyUp | KeyRight, mean + amp + diff, mean + amp - diff},
		{"up and down cancel", KeyUp | KeyDown, mean, mean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHuman("Human", heldKeys(tt.keys), c)
			a, err := h.Act(nil)
			require.NoError(t, err)
			assert.Equal(t, mixer.KindThrust, a.Kind)
			assert.InDelta(t, tt.left, a.Left, 1e-15)
			assert.InDelta(t, tt.right, a.Right, 1e-15)
		})
	}
}

func TestHumanNilInputIsIdle(t *testing.T) {
	c := dynamo.DefaultConstants()
	h := NewHuman("Human", nil, c)
	assert.Equal(t, observe.KindNone, h.ObservationKind())

	a, err := h.Act(nil)
	require.NoError(t, err)
	assert.Equal(t, c.ThrusterMean, a.Left)
	assert.Equal(t, c.ThrusterMean, a.Right)
}

func TestDiscreteValidatesInference(t *testing.T) {
	obs := make([]float64, observe.FeatureSize)

	p := NewDiscrete("DQN", func([]float64) (int, error) { return int(mixer.YawLeft), nil })
	a, err := p.Act(obs)
	require.NoError(t, err)
	assert.Equal(t, mixer.DiscreteAction(mixer.YawLeft), a)

	bad := NewDiscrete("DQN", func([]float64) (int, error) { return mixer.NumDiscrete, nil })
	_, err = bad.Act(obs)
	assert.ErrorIs(t, err, ErrInference)

	boom := errors.New("boom")
	failing := NewDiscrete("DQN", func([]float64) (int, error) { return 0, boom })
	_, err = failing.Act(obs)
	assert.ErrorIs(t, err, boom)

	_, err = p.Act(obs[:3])
	assert.ErrorIs(t, err, ErrObservationSize)
}

func TestContinuousPassesThrough(t *testing.T) {
	obs := make([]float64, observe.FeatureSize)
	p := NewContinuous("SAC", func([]float64) (float64, float64, error) { return 2, -3, nil })
	assert.Equal(t, observe.KindFeatures, p.ObservationKind())

	a, err := p.Act(obs)
	require.NoError(t, err)
	assert.Equal(t, mixer.ContinuousAction(2, -3), a)

	_, err = p.Act(make([]float64, observe.PIDSize))
	assert.ErrorIs(t, err, ErrObservationSize)
}

func TestPIDClimbsAndDescends(t *testing.T) {
	c := dynamo.DefaultConstants()
	home := dynamo.Point{X: 400, Y: 400}
	s := dynamo.AtRest(home)

	below := dynamo.Point{X: 400, Y: 600}
	p := NewPID("PID", DefaultPIDConfig(), c)
	a, err := p.Act(observe.PIDErrors(s, &below))
	require.NoError(t, err)
	assert.Equal(t, mixer.KindThrust, a.Kind)
	assert.Less(t, a.Left, c.ThrusterMean)
	assert.Less(t, a.Right, c.ThrusterMean)

	above := dynamo.Point{X: 400, Y: 200}
	p = NewPID("PID", DefaultPIDConfig(), c)
	a, err = p.Act(observe.PIDErrors(s, &above))
	require.NoError(t, err)
	assert.Greater(t, a.Left, c.ThrusterMean)
	assert.Greater(t, a.Right, c.ThrusterMean)
}

func TestPIDLeansTowardTarget(t *testing.T) {
	c := dynamo.DefaultConstants()
	s := dynamo.AtRest(dynamo.Point{X: 400, Y: 400})
	right := dynamo.Point{X: 600, Y: 400}

	p := NewPID("PID", DefaultPIDConfig(), c)
	a, err := p.Act(observe.PIDErrors(s, &right))
	require.NoError(t, err)

	// a stronger left thruster rolls the drone clockwise, toward +x
	assert.Greater(t, a.Left, a.Right)
}

func TestPIDReset(t *testing.T) {
	c := dynamo.DefaultConstants()
	s := dynamo.AtRest(dynamo.Point{X: 400, Y: 400})
	target := dynamo.Point{X: 500, Y: 300}
	obs := observe.PIDErrors(s, &target)

	p := NewPID("PID", DefaultPIDConfig(), c)
	var _ Resetter = p

	first, err := p.Act(obs)
	require.NoError(t, err)
	_, err = p.Act(obs)
	require.NoError(t, err)

	p.Reset()
	again, err := p.Act(obs)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	_, err = p.Act(obs[:2])
	assert.ErrorIs(t, err, ErrObservationSize)
}

func TestAutopilotDiscrete(t *testing.T) {
	s := dynamo.AtRest(dynamo.Point{X: 400, Y: 400})

	tests := []struct {
		name   string
		target dynamo.Point
		want   mixer.Discrete
	}{
		{"above", dynamo.Point{X: 400, Y: 200}, mixer.Up},
		{"right", dynamo.Point{X: 600, Y: 400}, mixer.YawRight},
		{"left", dynamo.Point{X: 200, Y: 400}, mixer.YawLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AutopilotDiscrete(observe.Features(s, &tt.target))
			require.NoError(t, err)
			assert.Equal(t, tt.want, mixer.Discrete(got))
		})
	}

	_, err := AutopilotDiscrete(make([]float64, observe.PIDSize))
	assert.ErrorIs(t, err, ErrObservationSize)
}

func TestAutopilotContinuous(t *testing.T) {
	s := dynamo.AtRest(dynamo.Point{X: 400, Y: 400})
	above := dynamo.Point{X: 400, Y: 200}

	thrust, diff, err := AutopilotContinuous(observe.Features(s, &above))
	require.NoError(t, err)
	assert.Equal(t, 1.0, thrust)
	assert.InDelta(t, 0, diff, 1e-9)

	below := dynamo.Point{X: 400, Y: 700}
	thrust, _, err = AutopilotContinuous(observe.Features(s, &below))
	require.NoError(t, err)
	assert.Equal(t, -1.0, thrust)
}

func TestPIDConfigSet(t *testing.T) {
	cfg := DefaultPIDConfig()
	require.NoError(t, cfg.Set("x.kp", 0.5))
	require.NoError(t, cfg.Set("Angle.KD", 0.03))
	require.NoError(t, cfg.Set("yspeed.ki", 0.1))
	assert.Equal(t, 0.5, cfg.X.Kp)
	assert.Equal(t, 0.03, cfg.Angle.Kd)
	assert.Equal(t, 0.1, cfg.YSpeed.Ki)
	assert.Equal(t, Bound(25), cfg.X.Max)

	v, err := cfg.Get("x.kp")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
	_, err = cfg.Get("x")
	assert.ErrorIs(t, err, ErrUnknownGain)

	for _, bad := range []string{"kp", "z.kp", "x.kx"} {
		assert.ErrorIs(t, cfg.Set(bad, 1), ErrUnknownGain, bad)
	}
}

func TestGainsBounds(t *testing.T) {
	out, err := Gains{Kp: 1}.build().Compute(1000, dynamo.TickSeconds)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, out)

	out, err = Gains{Kp: 1, Max: Bound(25)}.build().Compute(-1000, dynamo.TickSeconds)
	require.NoError(t, err)
	assert.Equal(t, -1000.0, out)

	out, err = DefaultPIDConfig().X.build().Compute(-1000, dynamo.TickSeconds)
	require.NoError(t, err)
	assert.Equal(t, -25.0, out)
}
