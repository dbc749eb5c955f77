// Package tui renders the flame chart in the terminal. It is a thin
// consumer of the flame core: all indexing and level-of-detail decisions
// happen in internal/flame, this package only paints query results.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamegrid/flamegrid/internal/category"
	"github.com/flamegrid/flamegrid/internal/config"
	"github.com/flamegrid/flamegrid/internal/flame"
	"github.com/flamegrid/flamegrid/internal/trace"
	"github.com/flamegrid/flamegrid/internal/tui/styles"
)

// Chrome rows around the chart: header, minimap (2), status.
const (
	headerRows  = 1
	minimapRows = 2
	statusRows  = 1
)

type frameMsg time.Time

// Model is the bubbletea model for the flame chart viewer. State changes
// (pan, zoom, resize, theme) only raise needsRender; the actual index query
// runs at most once per frame tick, coalescing bursts of input into a
// single query.
type Model struct {
	cfg   *config.Config
	tr    *trace.Trace
	theme styles.Theme

	index   *flame.Index
	culler  *flame.Culler
	vp      *flame.Viewport
	density *flame.Density

	width  int
	height int

	needsRender bool
	result      *flame.QueryResult
	overview    flame.DensityResult
	haveResult  bool

	quitting bool
}

// NewModel builds the viewer state for a loaded trace. The temporal index
// is constructed here, synchronously; it is the one deliberately slow step.
func NewModel(cfg *config.Config, tr *trace.Trace) *Model {
	tbl := cfg.CategoryTable()
	proj := flame.Project(tr)
	index := flame.NewIndex(proj, tbl)

	var comp flame.Computer
	if cfg.Density.Strategy == "direct" {
		comp = flame.NewDirectDensity(proj, index.Table())
	} else {
		comp = flame.NewSweepDensity(index)
	}

	m := &Model{
		cfg:         cfg,
		tr:          tr,
		theme:       styles.Lookup(cfg.TUI.Theme),
		index:       index,
		culler:      flame.NewCuller(index),
		density:     flame.NewDensity(comp),
		needsRender: true,
	}
	m.applyTheme()

	// Geometry is corrected by the first WindowSizeMsg.
	m.vp = m.newViewport(80, 24)
	return m
}

// newViewport builds a viewport for the chart area of a terminal of the
// given size. One terminal cell is one pixel; one depth level is one row.
func (m *Model) newViewport(width, height int) *flame.Viewport {
	chartH := height - headerRows - statusRows
	if m.cfg.TUI.ShowMinimap {
		chartH -= minimapRows
	}
	if chartH < 1 {
		chartH = 1
	}
	return flame.NewViewport(m.tr.Start, m.tr.End, m.index.MaxDepth(), width, chartH, flame.ViewportOptions{
		MinTimePerPixel: m.cfg.Viewport.MinTimePerPixel,
		RowHeight:       1,
		DepthPadding:    2,
	})
}

func (m *Model) applyTheme() {
	theme := m.theme
	m.culler.SetPalette(func(k category.Kind) string { return theme.Category(k) })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.frameCmd()
}

// frameCmd schedules the next render-coalescing tick.
func (m *Model) frameCmd() tea.Cmd {
	interval := time.Second / time.Duration(m.cfg.TUI.FrameRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.vp.Resize(typed.Width, m.chartHeight())
		m.needsRender = true
		return m, nil

	case frameMsg:
		if m.needsRender {
			m.refresh()
		}
		return m, m.frameCmd()

	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m *Model) chartHeight() int {
	h := m.height - headerRows - statusRows
	if m.cfg.TUI.ShowMinimap {
		h -= minimapRows
	}
	if h < 1 {
		h = 1
	}
	return h
}

// refresh runs the coalesced per-frame query. The result aliases index
// internals, so it is consumed synchronously by the next View call and
// replaced wholesale on the next refresh.
func (m *Model) refresh() {
	m.result = m.culler.Query(m.vp)
	if m.cfg.TUI.ShowMinimap && m.width > 0 {
		n := m.width
		if n > m.cfg.Density.MaxBuckets {
			n = m.cfg.Density.MaxBuckets
		}
		if res, err := m.density.Buckets(n); err == nil {
			m.overview = res
		}
	}
	m.haveResult = true
	m.needsRender = false
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "left", "h":
		m.vp.PanBy(-panStepPx(m.width), 0)
	case "right", "l":
		m.vp.PanBy(panStepPx(m.width), 0)
	case "up", "k":
		m.vp.PanBy(0, 1)
	case "down", "j":
		m.vp.PanBy(0, -1)
	case "H", "pgup":
		m.vp.PanBy(-4*panStepPx(m.width), 0)
	case "L", "pgdown":
		m.vp.PanBy(4*panStepPx(m.width), 0)

	case "+", "=":
		m.vp.ZoomBy(1.5, float64(m.width)/2)
	case "-", "_":
		m.vp.ZoomBy(1/1.5, float64(m.width)/2)
	case "0":
		m.vp.SetZoom(0) // clamps up to fit-whole-trace
		m.vp.SetPan(0, 0)

	case "t":
		m.toggleTheme()

	default:
		return m, nil
	}
	m.needsRender = true
	return m, nil
}

func (m *Model) toggleTheme() {
	if m.theme.Name == styles.DefaultTheme.Name {
		m.theme = styles.HighContrastTheme
	} else {
		m.theme = styles.DefaultTheme
	}
	m.applyTheme()
}

func panStepPx(width int) float64 {
	step := float64(width) / 8
	if step < 1 {
		step = 1
	}
	return step
}
