package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/flamegrid/flamegrid/internal/category"
)

// Cell shades for bucket density; denser buckets render darker.
var densityRunes = [...]rune{'░', '▒', '▓'}

func shadeFor(opacity float64) rune {
	switch {
	case opacity >= 0.8:
		return densityRunes[2]
	case opacity >= 0.5:
		return densityRunes[1]
	default:
		return densityRunes[0]
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 || !m.haveResult {
		return "loading trace…"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderChart())
	if m.cfg.TUI.ShowMinimap {
		b.WriteByte('\n')
		b.WriteString(m.renderMinimap())
	}
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := fmt.Sprintf("flamegrid — %s  (%d events, depth %d)",
		m.tr.Name, m.tr.EventCount, m.tr.MaxDepth+1)
	return m.theme.HeaderStyle().Render(ansi.Truncate(title, m.width, ""))
}

// renderChart paints visible rectangles and buckets into a rune grid and
// colors each run of same-colored cells with one lipgloss span.
func (m *Model) renderChart() string {
	rows := m.chartHeight()
	cols := m.width

	glyphs := make([][]rune, rows)
	colors := make([][]string, rows)
	for y := 0; y < rows; y++ {
		glyphs[y] = make([]rune, cols)
		colors[y] = make([]string, cols)
		for x := range glyphs[y] {
			glyphs[y][x] = ' '
		}
	}

	paint := func(x, w float64, depth int32, glyph rune, color string) {
		y := int(m.vp.DepthToY(int(depth)))
		if y < 0 || y >= rows {
			return
		}
		x0 := int(x)
		x1 := int(x + w)
		if x1 <= x0 {
			x1 = x0 + 1
		}
		for c := x0; c < x1 && c < cols; c++ {
			if c < 0 {
				continue
			}
			glyphs[y][c] = glyph
			colors[y][c] = color
		}
	}

	for kind := range m.result.Buckets {
		for _, bk := range m.result.Buckets[kind] {
			paint(bk.X, bk.W, bk.Depth, shadeFor(bk.Opacity), bk.Color)
		}
	}
	for kind := range m.result.Visible {
		color := m.theme.Category(category.Kind(kind))
		for _, r := range m.result.Visible[kind] {
			paint(r.X, r.W, r.Depth, '█', color)
		}
	}

	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		lines[y] = renderRuns(glyphs[y], colors[y])
	}
	return strings.Join(lines, "\n")
}

// renderRuns groups adjacent same-color cells into single styled spans.
func renderRuns(glyphs []rune, colors []string) string {
	var b strings.Builder
	start := 0
	for start < len(glyphs) {
		end := start + 1
		for end < len(glyphs) && colors[end] == colors[start] {
			end++
		}
		segment := string(glyphs[start:end])
		if colors[start] == "" {
			b.WriteString(segment)
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[start])).Render(segment))
		}
		start = end
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	start, end := m.vp.TimeRange()
	window := fmt.Sprintf("%s – %s", fmtNs(start-m.tr.Start), fmtNs(end-m.tr.Start))

	var b strings.Builder
	b.WriteString(m.theme.AccentStyle().Render(window))
	if m.cfg.TUI.ShowStats {
		st := m.result.Stats
		b.WriteString(m.theme.MutedStyle().Render(fmt.Sprintf(
			"  vis %d  buckets %d (%d events, max %d)",
			st.VisibleCount, st.BucketCount, st.BucketedEventCount, st.MaxEventsPerBucket)))
	}
	b.WriteString(m.theme.FooterStyle().Render("  [h/l pan  +/- zoom  0 fit  t theme  q quit]"))

	return ansi.Truncate(b.String(), m.width, "")
}

func fmtNs(ns int64) string {
	d := time.Duration(ns)
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%dns", ns)
	}
}
