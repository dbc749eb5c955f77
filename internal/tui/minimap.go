package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline levels for the minimap depth strip.
var sparkRunes = [...]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// renderMinimap draws the whole-trace overview: one row of category-colored
// blocks scaled by max stack depth, and one muted row marking the currently
// visible window.
func (m *Model) renderMinimap() string {
	cols := m.width
	if cols <= 0 || len(m.overview.Buckets) == 0 {
		return strings.Repeat(" ", cols) + "\n" + strings.Repeat(" ", cols)
	}

	buckets := m.overview.Buckets
	maxDepth := m.overview.MaxDepth
	if maxDepth < 1 {
		maxDepth = 1
	}

	var strip strings.Builder
	for x := 0; x < cols; x++ {
		i := x * len(buckets) / cols
		b := buckets[i]
		if b.Count == 0 {
			strip.WriteByte(' ')
			continue
		}
		level := b.MaxDepth * (len(sparkRunes) - 1) / maxDepth
		glyph := string(sparkRunes[level])
		color := m.theme.Category(b.Dominant)
		strip.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(glyph))
	}

	// Window marker row: which part of the trace the chart is showing.
	winStart, winEnd := m.vp.TimeRange()
	total := m.tr.End - m.tr.Start
	if total < 1 {
		total = 1
	}
	x0 := int(int64(cols) * (winStart - m.tr.Start) / total)
	x1 := int(int64(cols) * (winEnd - m.tr.Start) / total)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	marker := make([]rune, cols)
	for x := range marker {
		if x >= x0 && x < x1 {
			marker[x] = '─'
		} else {
			marker[x] = ' '
		}
	}
	markerLine := m.theme.AccentStyle().Render(string(marker))

	return strip.String() + "\n" + markerLine
}
