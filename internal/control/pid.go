package control

import (
	"errors"
	"math"
)

// ErrNonPositiveDt is returned by Compute when dt is zero, negative or NaN.
var ErrNonPositiveDt = errors.New("control: dt must be positive")

type bound struct {
	value float64
	set   bool
}

type PID struct {
	Kp, Ki, Kd float64

	max, min bound

	integral float64
	errLast  float64
}

type Option func(*PID)

// WithMax bounds the output from above.
func WithMax(v float64) Option {
	return func(p *PID) { p.max = bound{value: v, set: true} }
}

// WithMin bounds the output from below.
func WithMin(v float64) Option {
	return func(p *PID) { p.min = bound{value: v, set: true} }
}

// WithSaturation bounds the output on both sides.
func WithSaturation(max, min float64) Option {
	return func(p *PID) {
		WithMax(max)(p)
		WithMin(min)(p)
	}
}

func NewPID(kp, ki, kd float64, opts ...Option) *PID {
	p := &PID{Kp: kp, Ki: ki, Kd: kd}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compute feeds one error sample taken dt after the previous one.
//
// The upper bound is checked first; the lower bound is only consulted when
// the output did not exceed the upper one.
func (p *PID) Compute(err, dt float64) (float64, error) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return 0, ErrNonPositiveDt
	}

	derivative := (err - p.errLast) / dt
	p.integral += err * dt
	out := p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	p.errLast = err

	if p.max.set && out > p.max.value {
		out = p.max.value
	} else if p.min.set && out < p.min.value {
		out = p.min.value
	}
	return out, nil
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.errLast = 0
}

// Integral returns the accumulated err*dt since construction or the last Reset.
func (p *PID) Integral() float64 { return p.integral }

// Limits reports the configured saturation bounds.
func (p *PID) Limits() (max float64, hasMax bool, min float64, hasMin bool) {
	return p.max.value, p.max.set, p.min.value, p.min.set
}
