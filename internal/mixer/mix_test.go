package mixer

import (
	"testing"

	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixDiscrete(t *testing.T) {
	c := dynamo.DefaultConstants().WithDiffAmplitude(dynamo.DiffAmplitudeFine)

	tests := []struct {
		action      Discrete
		left, right float64
	}{
		{None, 0.04, 0.04},
		{Up, 0.08, 0.08},
		{Down, 0, 0},
		{YawRight, 0.04 + 0.0006, 0.04 - 0.0006},
		{YawLeft, 0.04 - 0.0006, 0.04 + 0.0006},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			l, r, err := Mix(DiscreteAction(tt.action), c)
			require.NoError(t, err)
			assert.InDelta(t, tt.left, l, 1e-15)
			assert.InDelta(t, tt.right, r, 1e-15)
		})
	}

	l, r, err := Mix(DiscreteAction(Up), c)
	require.NoError(t, err)
	assert.Equal(t, 0.08, l)
	assert.Equal(t, 0.08, r)
}

func TestMixDiscreteUnknown(t *testing.T) {
	c := dynamo.DefaultConstants()
	for _, d := range []Discrete{-1, 5, 42} {
		_, _, err := Mix(DiscreteAction(d), c)
		assert.ErrorIs(t, err, ErrUnknownAction)
	}
}

func TestMixContinuous(t *testing.T) {
	c := dynamo.DefaultConstants()

	l, r, err := Mix(ContinuousAction(0, 0), c)
	require.NoError(t, err)
	assert.Equal(t, c.ThrusterMean, l)
	assert.Equal(t, c.ThrusterMean, r)

	l, r, err = Mix(ContinuousAction(1, 1), c)
	require.NoError(t, err)
	assert.InDelta(t, 0.04+0.04+0.003, l, 1e-15)
	assert.InDelta(t, 0.04+0.04-0.003, r, 1e-15)

	l, r, err = Mix(ContinuousAction(-1, -0.5), c)
	require.NoError(t, err)
	assert.InDelta(t, -0.0015, l, 1e-15)
	assert.InDelta(t, 0.0015, r, 1e-15)
}

func TestMixDoesNotClamp(t *testing.T) {
	c := dynamo.DefaultConstants()

	l, r, err := Mix(ContinuousAction(10, 0), c)
	require.NoError(t, err)
	assert.InDelta(t, 0.44, l, 1e-12)
	assert.InDelta(t, 0.44, r, 1e-12)

	l, r, err = Mix(ThrustAction(-3, 7), c)
	require.NoError(t, err)
	assert.Equal(t, -3.0, l)
	assert.Equal(t, 7.0, r)
}

func TestMixUnknownKind(t *testing.T) {
	_, _, err := Mix(Action{Kind: Kind(9)}, dynamo.DefaultConstants())
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDeltaComposes(t *testing.T) {
	c := dynamo.DefaultConstants()
	ul, ur := Delta(Up, c)
	yl, yr := Delta(YawLeft, c)

	assert.Equal(t, c.ThrusterAmplitude-c.DiffAmplitude, ul+yl)
	assert.Equal(t, c.ThrusterAmplitude+c.DiffAmplitude, ur+yr)

	nl, nr := Delta(None, c)
	assert.Zero(t, nl)
	assert.Zero(t, nr)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "up", DiscreteAction(Up).String())
	assert.Equal(t, "continuous(0.500, -0.250)", ContinuousAction(0.5, -0.25).String())
	assert.Equal(t, "thrust(0.0400, 0.0500)", ThrustAction(0.04, 0.05).String())
	assert.Equal(t, "kind(7)", Action{Kind: 7}.String())
}
