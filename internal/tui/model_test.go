package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamegrid/flamegrid/internal/config"
	"github.com/flamegrid/flamegrid/internal/trace"
)

func testTrace() *trace.Trace {
	child := &trace.Event{
		Name: "insert", Category: "DML",
		Start: 100, End: 400, Duration: 300, SelfTime: 300, Depth: 1,
	}
	root := &trace.Event{
		Name: "execute", Category: "Code Unit",
		Start: 0, End: 1000, Duration: 1000, SelfTime: 700,
		Children: []*trace.Event{child},
	}
	return &trace.Trace{
		Name:       "unit-test",
		Start:      0,
		End:        1000,
		Roots:      []*trace.Event{root},
		EventCount: 2,
		MaxDepth:   1,
	}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	m := NewModel(cfg, testTrace())
	require.NotNil(t, m)
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelCoalescesRendersIntoFrames(t *testing.T) {
	m := testModel(t)

	// A resize only marks the model dirty.
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.True(t, m.needsRender)
	assert.False(t, m.haveResult)

	// The next frame tick runs the one coalesced query.
	_, cmd := m.Update(frameMsg(time.Now()))
	assert.False(t, m.needsRender)
	assert.True(t, m.haveResult)
	require.NotNil(t, m.result)
	assert.NotNil(t, cmd, "every frame schedules the next tick")

	// A clean frame does not requery.
	prev := m.result
	m.Update(frameMsg(time.Now()))
	assert.Same(t, prev, m.result)
}

func TestModelKeysMarkDirty(t *testing.T) {
	m := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(frameMsg(time.Now()))
	require.False(t, m.needsRender)

	for _, key := range []string{"l", "h", "k", "j", "+", "-", "0", "t"} {
		m.needsRender = false
		m.Update(keyMsg(key))
		assert.True(t, m.needsRender, "key %q", key)
	}

	// Unbound keys change nothing.
	m.needsRender = false
	m.Update(keyMsg("x"))
	assert.False(t, m.needsRender)
}

func TestModelQuit(t *testing.T) {
	m := testModel(t)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModelViewRendersChrome(t *testing.T) {
	m := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(frameMsg(time.Now()))

	out := m.View()
	assert.Contains(t, out, "unit-test")
	assert.Contains(t, out, "2 events")

	// Header + chart rows + minimap rows + status.
	lines := strings.Split(out, "\n")
	want := headerRows + m.chartHeight() + minimapRows + statusRows
	assert.Len(t, lines, want)
}

func TestModelViewBeforeFirstFrame(t *testing.T) {
	m := testModel(t)
	assert.Contains(t, m.View(), "loading")
}

func TestModelThemeToggle(t *testing.T) {
	m := testModel(t)
	before := m.theme.Name

	m.Update(keyMsg("t"))
	assert.NotEqual(t, before, m.theme.Name)

	m.Update(keyMsg("t"))
	assert.Equal(t, before, m.theme.Name)
}

func TestModelZoomKeysMoveViewport(t *testing.T) {
	m := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(frameMsg(time.Now()))

	fit := m.vp.Zoom()
	m.Update(keyMsg("+"))
	assert.Greater(t, m.vp.Zoom(), fit)

	m.Update(keyMsg("0"))
	assert.InDelta(t, fit, m.vp.Zoom(), 1e-9)
}
