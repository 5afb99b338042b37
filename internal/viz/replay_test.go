package viz

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReplay(t *testing.T, steps int) Replay {
	t.Helper()
	p := dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}
	m, err := dynamo.New(p, dynamo.DefaultDt)
	require.NoError(t, err)
	traj, err := dynamo.Simulate(context.Background(), m, dynamo.Rest(), dynamo.ReferenceSchedule(), steps)
	require.NoError(t, err)
	return NewReplay("reference", p, traj)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Replay, msg tea.Msg) (Replay, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	r, ok := next.(Replay)
	require.True(t, ok)
	return r, cmd
}

func TestReplayTickAdvances(t *testing.T) {
	m := newTestReplay(t, 5)
	assert.True(t, m.Running())
	assert.NotNil(t, m.Init())

	m, cmd := update(t, m, TickMsg(time.Now()))
	assert.Equal(t, 1, m.Frame())
	assert.NotNil(t, cmd)

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, TickMsg(time.Now()))
	}
	assert.Equal(t, 5, m.Frame())
	assert.False(t, m.Running(), "playback stops on the last state")
}

func TestReplayPauseAndRestart(t *testing.T) {
	m := newTestReplay(t, 20)

	m, _ = update(t, m, key(" "))
	assert.False(t, m.Running())
	m, _ = update(t, m, TickMsg(time.Now()))
	assert.Equal(t, 0, m.Frame())

	m, _ = update(t, m, key("]"))
	m, _ = update(t, m, key("]"))
	assert.Equal(t, 2, m.Frame())
	m, _ = update(t, m, key("["))
	assert.Equal(t, 1, m.Frame())
	m, _ = update(t, m, key("["))
	m, _ = update(t, m, key("["))
	assert.Equal(t, 0, m.Frame())

	m, _ = update(t, m, key("}"))
	assert.Equal(t, 20, m.Frame())

	m, _ = update(t, m, key("r"))
	assert.Equal(t, 0, m.Frame())
	assert.True(t, m.Running())
}

func TestReplaySpeed(t *testing.T) {
	m := newTestReplay(t, 5)

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, key("+"))
	}
	assert.Equal(t, float64(maxSpeed), m.Speed())

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, key("-"))
	}
	assert.Equal(t, minSpeed, m.Speed())
}

func TestReplayThemeCycles(t *testing.T) {
	m := newTestReplay(t, 5)
	assert.Equal(t, "minimal", m.Theme().Name)

	m, _ = update(t, m, key("t"))
	assert.Equal(t, "retro", m.Theme().Name)

	m = m.WithTheme(GetTheme("ocean"))
	assert.Equal(t, "ocean", m.Theme().Name)
}

func TestReplayQuit(t *testing.T) {
	m := newTestReplay(t, 5)

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestReplayView(t *testing.T) {
	m := newTestReplay(t, 30)
	for i := 0; i < 12; i++ {
		m, _ = update(t, m, TickMsg(time.Now()))
	}

	view := m.View()
	assert.Contains(t, view, "REFERENCE")
	assert.Contains(t, view, "PLAYING")
	assert.Contains(t, view, "12 / 30")
	assert.Contains(t, view, "+10.00")

	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, key("?"))
	view = m.View()
	assert.Contains(t, view, "PAUSED")
	assert.Contains(t, view, "space play/pause")
}

func TestReplayResize(t *testing.T) {
	m := newTestReplay(t, 5)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})
	assert.Equal(t, 52, m.canvas.Width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 40})
	assert.Equal(t, 20, m.canvas.Width)
}
