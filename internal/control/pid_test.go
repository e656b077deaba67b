package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDProportional(t *testing.T) {
	pid := NewPID(1, 0, 0)

	out, err := pid.Compute(5, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, out)
}

func TestPIDSaturationPrecedence(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		err  float64
		want float64
	}{
		{"above max", []Option{WithSaturation(10, -10)}, 20, 10},
		{"below min", []Option{WithSaturation(10, -10)}, -20, -10},
		{"inside", []Option{WithSaturation(10, -10)}, 3, 3},
		{"max only", []Option{WithMax(10)}, -50, -50},
		{"min only", []Option{WithMin(-10)}, 50, 50},
		{"none", nil, 1e6, 1e6},
		// an inverted window only ever applies one bound per call
		{"inverted window high", []Option{WithSaturation(-5, 5)}, 0, -5},
		{"inverted window low", []Option{WithSaturation(5, 8)}, 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pid := NewPID(1, 0, 0, tt.opts...)
			out, err := pid.Compute(tt.err, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPIDIntegralAndDerivative(t *testing.T) {
	pid := NewPID(0, 1, 0)
	for i := 0; i < 4; i++ {
		_, err := pid.Compute(2, 0.5)
		require.NoError(t, err)
	}
	assert.Equal(t, 4.0, pid.Integral())

	d := NewPID(0, 0, 1)
	out, err := d.Compute(3, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 6.0, out, "first derivative is measured against zero")

	out, err = d.Compute(4, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2.0, out)
}

func TestPIDInvalidDt(t *testing.T) {
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		pid := NewPID(1, 1, 1)
		_, err := pid.Compute(1, dt)
		assert.ErrorIs(t, err, ErrNonPositiveDt, "dt=%v", dt)
		assert.Equal(t, 0.0, pid.Integral(), "state must be untouched")
	}
}

func TestPIDReset(t *testing.T) {
	pid := NewPID(1, 1, 1)
	_, err := pid.Compute(3, 1)
	require.NoError(t, err)

	pid.Reset()
	out, err := pid.Compute(3, 1)
	require.NoError(t, err)

	fresh := NewPID(1, 1, 1)
	want, _ := fresh.Compute(3, 1)
	assert.Equal(t, want, out)
}

func TestPIDLimits(t *testing.T) {
	max, hasMax, min, hasMin := NewPID(1, 0, 0, WithMax(2)).Limits()
	assert.Equal(t, 2.0, max)
	assert.True(t, hasMax)
	assert.Equal(t, 0.0, min)
	assert.False(t, hasMin)
}
