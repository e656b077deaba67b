package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/quadai/internal/sim"
)

const (
	defaultCanvasWidth  = 60
	defaultCanvasHeight = 30
	sparkWidth          = 20
)

// Options wires an App to the rest of the program.
type Options struct {
	Title      string
	TimeLimits []float64

	// Start builds a fresh run for the chosen time limit.
	Start func(timeLimit float64) (*sim.Run, error)
	// Finish is handed the result of a run that was not abandoned. Its
	// message is shown under the score table.
	Finish func(res *sim.Result) (string, error)

	Keyboard *Keyboard

	// Canvas size in terminal cells.
	Width, Height int
}

type screen int

const (
	screenMenu screen = iota
	screenRace
	screenResults
)

// TickMsg advances the race by one tick.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type App struct {
	opts   Options
	screen screen
	cursor int

	run    *sim.Run
	canvas *Canvas
	result *sim.Result
	note   string
	err    error
}

func NewApp(opts Options) *App {
	if opts.Keyboard == nil {
		opts.Keyboard = NewKeyboard(DefaultHold)
	}
	if opts.Width <= 0 {
		opts.Width = defaultCanvasWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultCanvasHeight
	}
	return &App{opts: opts, canvas: NewCanvas(opts.Width, opts.Height)}
}

// Err is the error that stopped the program, if any.
func (a *App) Err() error { return a.err }

// Result is the last finished or abandoned run.
func (a *App) Result() *sim.Result { return a.result }

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if a.run != nil {
				a.run.Stop()
			}
			return a, tea.Quit
		}
		switch a.screen {
		case screenMenu:
			return a.updateMenu(msg)
		case screenRace:
			return a.updateRace(msg)
		case screenResults:
			switch msg.String() {
			case "q", "esc", "enter":
				return a, tea.Quit
			}
		}
	case TickMsg:
		if a.screen != screenRace {
			return a, nil
		}
		return a.step()
	}
	return a, nil
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.opts.TimeLimits)-1 {
			a.cursor++
		}
	case "q", "esc":
		return a, tea.Quit
	case "enter", " ":
		if len(a.opts.TimeLimits) == 0 {
			return a, nil
		}
		run, err := a.opts.Start(a.opts.TimeLimits[a.cursor])
		if err != nil {
			a.err = err
			return a, tea.Quit
		}
		a.run = run
		a.opts.Keyboard.Release()
		a.screen = screenRace
		return a, tick()
	}
	return a, nil
}

func (a *App) updateRace(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key, ok := KeyFor(msg.String()); ok {
		a.opts.Keyboard.Press(key)
		return a, nil
	}
	switch msg.String() {
	case "q", "esc":
		a.run.Stop()
		a.result = a.run.Result()
		a.note = "Race abandoned, nothing saved."
		a.screen = screenResults
	}
	return a, nil
}

func (a *App) step() (tea.Model, tea.Cmd) {
	if a.run.Done() {
		return a, nil
	}
	err := a.run.Tick()
	a.opts.Keyboard.Advance()
	if err != nil && !errors.Is(err, sim.ErrRunOver) {
		a.err = err
		a.run.Stop()
		return a, tea.Quit
	}
	if !a.run.Done() {
		return a, tick()
	}

	a.result = a.run.Result()
	a.screen = screenResults
	if a.opts.Finish != nil {
		note, err := a.opts.Finish(a.result)
		if err != nil {
			a.note = fmt.Sprintf("Could not save results: %v", err)
		} else {
			a.note = note
		}
	}
	return a, nil
}

func (a *App) View() string {
	switch a.screen {
	case screenRace:
		return a.viewRace()
	case screenResults:
		return a.viewResults()
	default:
		return a.viewMenu()
	}
}

func (a *App) viewMenu() string {
	var b strings.Builder
	b.WriteString(GradientText(a.opts.Title, "#00ffff", "#ff00ff"))
	b.WriteString("\n\n")
	b.WriteString(MetricLabel.Render("Choose a race length"))
	b.WriteString("\n\n")
	for i, limit := range a.opts.TimeLimits {
		line := fmt.Sprintf("%g seconds", limit)
		if i == a.cursor {
			b.WriteString(NeonGlow.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(KeyHint.Render("↑/↓ select • enter start • q quit"))
	return GlassPanel.Render(b.String())
}

func (a *App) viewRace() string {
	DrawRun(a.canvas, a.run)
	arena := GlassPanel.Padding(0, 0).Render(a.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, arena, "  ", a.hud())
}

func (a *App) hud() string {
	var b strings.Builder
	limit := a.run.Config().TimeLimit
	remaining := a.run.Remaining()

	b.WriteString(GradientTitle.Render(a.run.Config().Name))
	b.WriteString("\n\n")
	b.WriteString(MetricLabel.Render("Time  "))
	b.WriteString(MetricValue.Render(fmt.Sprintf("%5.1fs", remaining)))
	b.WriteString("\n")
	b.WriteString(ProgressBar(remaining/limit, sparkWidth+6))
	b.WriteString("\n\n")

	for _, ag := range a.run.Agents() {
		name := PlayerStyle(ag.Player.Family, ag.Player.Alpha).Render(fmt.Sprintf("%-10s", ag.Player.Name))
		b.WriteString(name)
		b.WriteString(MetricValue.Render(fmt.Sprintf(" %3d", ag.Life.Score())))
		b.WriteString("  ")
		if ag.Life.Alive() {
			b.WriteString(StatusRunning.Render("flying"))
		} else {
			b.WriteString(StatusPaused.Render(fmt.Sprintf("Respawning... %d", int(ag.Life.RespawnTimer())+1)))
		}
		b.WriteString("\n")
		b.WriteString("  " + SparklineChart(ag.Timeline(), sparkWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(KeyHint.Render("arrows/wasd fly • q abandon"))
	return b.String()
}

var seriesColors = map[string]asciigraph.AnsiColor{
	sim.FamilyHuman: asciigraph.White,
	sim.FamilyPID:   asciigraph.Red,
	sim.FamilySAC:   asciigraph.Blue,
	sim.FamilyDQN:   asciigraph.Yellow,
}

func (a *App) viewResults() string {
	var b strings.Builder
	res := a.result

	b.WriteString(GradientText("Simulation Over!", "#00ffff", "#ff00ff"))
	b.WriteString("\n\n")
	if res != nil {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%s • %.1fs of %gs • %s", res.Simulation, res.Elapsed, res.TimeLimit, res.Reason)))
		b.WriteString("\n")
		if res.Winner != "" {
			b.WriteString(StatusRunning.Render("Winner: " + res.Winner))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		var series [][]float64
		var colors []asciigraph.AnsiColor
		for _, s := range res.Scores {
			b.WriteString(PlayerStyle(s.Family, 1).Render(fmt.Sprintf("%-10s", s.Name)))
			b.WriteString(MetricValue.Render(fmt.Sprintf(" %3d", s.Score)))
			b.WriteString(Subtle.Render(fmt.Sprintf("  deaths %d", s.Deaths)))
			b.WriteString("\n")
			if len(s.Timeline) > 1 {
				series = append(series, s.Timeline)
				colors = append(colors, seriesColors[s.Family])
			}
		}
		if len(series) > 0 {
			b.WriteString("\n")
			b.WriteString(asciigraph.PlotMany(series,
				asciigraph.Height(8),
				asciigraph.Width(48),
				asciigraph.SeriesColors(colors...),
				asciigraph.Caption("targets reached")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(Separator(40))
	b.WriteString("\n")
	if a.note != "" {
		b.WriteString(a.note)
		b.WriteString("\n")
	}
	b.WriteString(KeyHint.Render("enter/q quit"))
	return GlassPanel.Render(b.String())
}

// Run starts app on the alternate screen and blocks until it quits.
func Run(app *App) error {
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return app.Err()
}
