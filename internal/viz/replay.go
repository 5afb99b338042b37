package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/metrics"
	"github.com/san-kum/msdsim/internal/render"
)

const (
	canvasWidth  = 70
	canvasHeight = 8
	sparkWidth   = 60

	minSpeed = 0.125
	maxSpeed = 8
)

type TickMsg time.Time

// Replay plays back a stored trajectory in the terminal, one state per tick
// at the trajectory's own step size scaled by the playback speed.
type Replay struct {
	title  string
	traj   *dynamo.Trajectory
	forces []float64
	energy []float64
	scene  render.Scene
	canvas *Canvas

	frame    int
	running  bool
	speed    float64
	showHelp bool

	theme  Theme
	styles styles
}

func NewReplay(title string, p dynamo.Params, traj *dynamo.Trajectory) Replay {
	energy := make([]float64, traj.Len())
	for i := range energy {
		energy[i] = metrics.MechanicalEnergy(p, traj.At(i))
	}
	return Replay{
		title:   title,
		traj:    traj,
		forces:  traj.Forces(),
		energy:  energy,
		scene:   TerminalScene(),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
		speed:   1,
		theme:   ThemeMinimal,
		styles:  newStyles(ThemeMinimal),
	}
}

// Frame returns the index of the state currently shown.
func (m Replay) Frame() int { return m.frame }

// Running reports whether playback is advancing.
func (m Replay) Running() bool { return m.running }

// Speed returns the playback speed multiplier.
func (m Replay) Speed() float64 { return m.speed }

func (m Replay) Init() tea.Cmd {
	return m.tick()
}

func (m Replay) tick() tea.Cmd {
	interval := time.Duration(float64(time.Second) * m.traj.Dt() / m.speed)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key presses and advances playback on every tick.
func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.frame >= m.last() {
				m.frame = 0
			}
			m.running = !m.running
		case "r":
			m.frame = 0
			m.running = true
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "{":
			m.scrub(-dynamo.DefaultFPS)
		case "}":
			m.scrub(dynamo.DefaultFPS)
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, minSpeed)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(20, min(msg.Width-8, 120))
		if w != m.canvas.Width {
			m.canvas = NewCanvas(w, canvasHeight)
		}
	case TickMsg:
		if m.running {
			m.frame++
			if m.frame >= m.last() {
				m.frame = m.last()
				m.running = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Replay) scrub(n int) {
	m.running = false
	m.frame = max(0, min(m.frame+n, m.last()))
}

func (m Replay) last() int { return m.traj.Len() - 1 }

func (m Replay) force() float64 {
	if m.frame == 0 || m.frame > len(m.forces) {
		return 0
	}
	return m.forces[m.frame-1]
}

// View renders the mechanism, the current state and a displacement history.
func (m Replay) View() string {
	DrawSystem(m.canvas, m.scene, m.traj.Displacement(m.frame))

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")

	status := m.styles.running.Render("PLAYING")
	if !m.running {
		status = m.styles.paused.Render("PAUSED")
	}
	fmt.Fprintf(&s, "%s  x%.3g\n", status, m.speed)

	s.WriteString(m.styles.canvas.Render(m.canvas.String()) + "\n")

	row := func(label, value string) string {
		return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
	}
	var stats strings.Builder
	stats.WriteString(row("time", fmt.Sprintf("%.3f s", m.traj.Time(m.frame))))
	stats.WriteString(row("step", fmt.Sprintf("%d / %d", m.frame, m.last())))
	stats.WriteString(row("displacement", fmt.Sprintf("%+.4f", m.traj.Displacement(m.frame))))
	stats.WriteString(row("velocity", fmt.Sprintf("%+.4f", m.traj.Velocity(m.frame))))
	stats.WriteString(row("force", fmt.Sprintf("%+.2f", m.force())))
	stats.WriteString(row("energy", fmt.Sprintf("%.4f", m.energy[m.frame])))

	progress := 1.0
	if m.last() > 0 {
		progress = float64(m.frame) / float64(m.last())
	}
	stats.WriteString(m.styles.graph.Render(ProgressBar(progress, 40)))

	s.WriteString(m.styles.panel.Render(stats.String()) + "\n")

	from := max(0, m.frame+1-sparkWidth)
	history := m.traj.Displacements()[from : m.frame+1]
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.label.Render("history"),
		m.styles.graph.Render(Sparkline(history, sparkWidth)),
	) + "\n")

	if m.showHelp {
		s.WriteString(m.styles.hint.Render("space play/pause  r restart  [ ] step  { } 1s  + - speed  t theme  q quit") + "\n")
	} else {
		s.WriteString(m.styles.hint.Render("? help") + "\n")
	}

	return s.String()
}

// RunReplay runs m full screen until the user quits.
func RunReplay(m Replay) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// WithTheme returns a copy of m drawn with t.
func (m Replay) WithTheme(t Theme) Replay {
	m.theme = t
	m.styles = newStyles(t)
	return m
}

// Theme returns the active color theme.
func (m Replay) Theme() Theme { return m.theme }
