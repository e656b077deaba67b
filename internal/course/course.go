// Package course holds the ordered target sequence agents race through.
package course

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/san-kum/quadai/internal/dynamo"
)

var (
	ErrEmptyArea   = errors.New("course: target area is empty")
	ErrTargetCount = errors.New("course: target count must not be negative")
)

// Course is an ordered, read-only list of targets shared by every agent of a
// run. Agents keep their own cursor into it.
type Course struct {
	points []dynamo.Point
}

func New(points []dynamo.Point) Course {
	p := make([]dynamo.Point, len(points))
	copy(p, points)
	return Course{points: p}
}

func (c Course) Len() int { return len(c.points) }

// At returns target i, or false once i is past the end.
func (c Course) At(i int) (dynamo.Point, bool) {
	if i < 0 || i >= len(c.points) {
		return dynamo.Point{}, false
	}
	return c.points[i], true
}

// Points returns a copy of the targets.
func (c Course) Points() []dynamo.Point {
	return New(c.points).points
}

// Area is a half-open integer rectangle [MinX, MaxX) x [MinY, MaxY).
type Area struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Inset returns the area of a width x height arena shrunk by margin on all sides.
func Inset(width, height, margin int) Area {
	return Area{MinX: margin, MaxX: width - margin, MinY: margin, MaxY: height - margin}
}

// Inner returns the [w/4, 3w/4) x [h/4, 3h/4) area the training env samples from.
func Inner(width, height int) Area {
	return Area{MinX: width / 4, MaxX: 3 * width / 4, MinY: height / 4, MaxY: 3 * height / 4}
}

func (a Area) Validate() error {
	if a.MaxX <= a.MinX || a.MaxY <= a.MinY {
		return fmt.Errorf("%w: [%d,%d)x[%d,%d)", ErrEmptyArea, a.MinX, a.MaxX, a.MinY, a.MaxY)
	}
	return nil
}

// Sample draws one integer-valued point uniformly from a.
func (a Area) Sample(rng *rand.Rand) dynamo.Point {
	return dynamo.Point{
		X: float64(a.MinX + rng.Intn(a.MaxX-a.MinX)),
		Y: float64(a.MinY + rng.Intn(a.MaxY-a.MinY)),
	}
}

// Generate draws n targets uniformly from a.
func Generate(rng *rand.Rand, n int, a Area) (Course, error) {
	if n < 0 {
		return Course{}, fmt.Errorf("%w: %d", ErrTargetCount, n)
	}
	if err := a.Validate(); err != nil {
		return Course{}, err
	}
	points := make([]dynamo.Point, n)
	for i := range points {
		points[i] = a.Sample(rng)
	}
	return Course{points: points}, nil
}
