// Package export writes races out as SVG drawings.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/quadai/internal/course"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/sim"
)

var familyStroke = map[string]string{
	sim.FamilyHuman: "#ffffff",
	sim.FamilyPID:   "#ff5555",
	sim.FamilySAC:   "#00ccff",
	sim.FamilyDQN:   "#ffcc00",
}

// Track is the flown path of one player. A dead stretch splits it into
// segments.
type Track struct {
	Name     string
	Family   string
	Segments [][]dynamo.Point
}

// Tracer samples agent positions from a run every Every ticks.
type Tracer struct {
	Every  int
	tracks []*Track
	alive  []bool
}

func NewTracer(every int) *Tracer {
	if every < 1 {
		every = 1
	}
	return &Tracer{Every: every}
}

// Record samples r after a tick.
func (t *Tracer) Record(r *sim.Run) {
	agents := r.Agents()
	if t.tracks == nil {
		t.tracks = make([]*Track, len(agents))
		t.alive = make([]bool, len(agents))
		for i, a := range agents {
			t.tracks[i] = &Track{Name: a.Player.Name, Family: a.Player.Family}
		}
	}
	if r.Ticks()%t.Every != 0 {
		return
	}
	for i, a := range agents {
		tr := t.tracks[i]
		if !a.Life.Alive() {
			t.alive[i] = false
			continue
		}
		if !t.alive[i] || len(tr.Segments) == 0 {
			tr.Segments = append(tr.Segments, nil)
			t.alive[i] = true
		}
		last := len(tr.Segments) - 1
		tr.Segments[last] = append(tr.Segments[last], a.Life.State.Position())
	}
}

func (t *Tracer) Tracks() []Track {
	out := make([]Track, len(t.tracks))
	for i, tr := range t.tracks {
		out[i] = *tr
	}
	return out
}

// Scene is everything drawn in one picture, in arena pixels.
type Scene struct {
	Width, Height int
	Course        course.Course
	ReachRadius   float64
	Tracks        []Track
}

// WriteSVG draws the arena, the numbered targets and every track.
func WriteSVG(w io.Writer, s Scene) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, s.Width, s.Height, s.Width, s.Height))

	sb.WriteString(`<g fill="none" stroke="#444466" stroke-width="1">` + "\n")
	for _, p := range s.Course.Points() {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", p.X, p.Y, s.ReachRadius))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#888899" font-family="monospace" font-size="10" text-anchor="middle">` + "\n")
	for i, p := range s.Course.Points() {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%d</text>`+"\n", p.X, p.Y+3, i+1))
	}
	sb.WriteString("</g>\n")

	for _, tr := range s.Tracks {
		stroke, ok := familyStroke[tr.Family]
		if !ok {
			stroke = "#aaaaaa"
		}
		sb.WriteString(fmt.Sprintf(`<g fill="none" stroke="%s" stroke-width="1.5"><title>%s</title>`+"\n", stroke, tr.Name))
		for _, seg := range tr.Segments {
			if len(seg) < 2 {
				continue
			}
			sb.WriteString(`<path d="M`)
			for i, p := range seg {
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
				}
			}
			sb.WriteString(`"/>` + "\n")
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
