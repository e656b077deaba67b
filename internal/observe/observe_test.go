package observe

import (
	"math"
	"testing"

	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatures(t *testing.T) {
	s := dynamo.KinematicState{X: 100, Y: 100, Xd: 3, Yd: 4, A: 90, Ad: 0.5}
	target := dynamo.Point{X: 400, Y: 500}

	obs := Features(s, &target)
	require.Len(t, obs, FeatureSize)

	assert.InDelta(t, math.Pi/2, obs[AngleToUp], 1e-15)
	assert.Equal(t, 5.0, obs[Velocity])
	assert.Equal(t, 0.5, obs[AngularVelocity])
	assert.Equal(t, 1.0, obs[DistanceToTarget])
	assert.Equal(t, obs[DistanceToTarget], obs[DistanceToTargetRepeat])

	toTarget := math.Atan2(400, 300)
	assert.Equal(t, toTarget, obs[AngleToTarget])
	assert.Equal(t, toTarget-math.Atan2(4, 3), obs[AngleTargetVelocity])
}

func TestFeaturesExhausted(t *testing.T) {
	s := dynamo.KinematicState{X: 10, Y: 10, Xd: 0, Yd: -2}

	obs := Features(s, nil)
	require.Len(t, obs, FeatureSize)

	assert.Zero(t, obs[DistanceToTarget])
	assert.Zero(t, obs[DistanceToTargetRepeat])
	assert.Zero(t, obs[AngleToTarget])
	assert.Equal(t, -math.Atan2(-2, 0), obs[AngleTargetVelocity])
}

func TestPIDErrors(t *testing.T) {
	s := dynamo.KinematicState{X: 100, Y: 200, Xd: 1, Yd: -1, A: 12, Ad: -0.3}
	target := dynamo.Point{X: 150, Y: 120}

	obs := PIDErrors(s, &target)
	assert.Equal(t, []float64{50, 1, -80, -1, 12, -0.3}, obs)

	obs = PIDErrors(s, nil)
	assert.Equal(t, []float64{0, 1, 0, -1, 12, -0.3}, obs)
}

func TestBuildDispatch(t *testing.T) {
	s := dynamo.AtRest(dynamo.Point{X: 1, Y: 1})
	target := dynamo.Point{X: 2, Y: 2}

	for _, k := range []Kind{KindNone, KindPID, KindFeatures} {
		t.Run(k.String(), func(t *testing.T) {
			assert.Len(t, Build(k, s, &target), k.Size())
		})
	}
}
