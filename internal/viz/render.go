package viz

import (
	"math"

	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/sim"
)

// minArm keeps a drone visible on small canvases.
const minArm = 2

// arenaView maps arena pixels onto canvas dots.
type arenaView struct {
	canvas *Canvas
	sx, sy float64
}

func newArenaView(c *Canvas, width, height int) arenaView {
	w, h := c.Dots()
	return arenaView{
		canvas: c,
		sx:     float64(w-1) / float64(width),
		sy:     float64(h-1) / float64(height),
	}
}

func (v arenaView) dot(p dynamo.Point) (int, int) {
	return int(math.Round(p.X * v.sx)), int(math.Round(p.Y * v.sy))
}

// DrawRun paints the arena border, every live target and every live drone.
func DrawRun(c *Canvas, r *sim.Run) {
	c.Clear()
	cfg := r.Config()
	v := newArenaView(c, cfg.Width, cfg.Height)

	w, h := c.Dots()
	c.DrawRect(0, 0, w-1, h-1)

	radius := int(math.Round(cfg.Rules.ReachRadius * math.Min(v.sx, v.sy)))
	seen := make(map[int]bool)
	for _, a := range r.Agents() {
		idx := a.Life.TargetCounter
		t, ok := a.Life.Target(r.Course())
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		x, y := v.dot(t)
		c.DrawCircle(x, y, radius)
		c.Set(x, y)
	}

	for _, a := range r.Agents() {
		if a.Life.Alive() {
			v.drawDrone(a.Life.State, a.Player.Constants.Arm)
		}
	}
}

// drawDrone draws the arm as a bar tilted by the state's angle, plus a short
// stub along the thrust axis.
func (v arenaView) drawDrone(s dynamo.KinematicState, arm float64) {
	cx, cy := v.dot(s.Position())
	rad := s.A * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	ax := math.Max(arm*v.sx, minArm)
	ay := math.Max(arm*v.sy, minArm)
	dx, dy := int(math.Round(ax*cos)), int(math.Round(ay*sin))
	v.canvas.DrawLine(cx-dx, cy+dy, cx+dx, cy-dy)

	ux, uy := int(math.Round(-ax*sin/2)), int(math.Round(-ay*cos/2))
	v.canvas.DrawLine(cx, cy, cx+ux, cy+uy)
}
