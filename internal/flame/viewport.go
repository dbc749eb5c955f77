package flame

import "math"

// Viewport defaults; overridable through Options.
const (
	// defaultMinTimePerPixel is the finest zoom precision: one pixel never
	// represents less than this many time units.
	defaultMinTimePerPixel = 0.001

	// defaultRowHeight is the pixel height of one depth level.
	defaultRowHeight = 15.0

	// defaultDepthPadding is how far (px) the deepest row may scroll past
	// the top edge.
	defaultDepthPadding = 30.0
)

// ViewportOptions tunes viewport behavior; zero values take defaults.
type ViewportOptions struct {
	MinTimePerPixel float64
	RowHeight       float64
	DepthPadding    float64
}

// Viewport owns zoom/pan state and every coordinate transform between trace
// time/depth and screen pixels. All mutations pass through clamping so the
// invariants hold continuously: zoom stays within [fit-whole-trace,
// precision-limit], the horizontal window stays inside the trace, and depth
// zero never scrolls past the bottom edge while the deepest row scrolls at
// most DepthPadding past the top.
type Viewport struct {
	traceStart int64
	traceEnd   int64
	maxDepth   int

	width  float64 // px
	height float64 // px

	zoom    float64 // px per time unit
	offsetX float64 // time units hidden left of the window
	offsetY float64 // px scrolled upward from depth zero at the bottom

	minTimePerPixel float64
	rowHeight       float64
	depthPadding    float64
}

// NewViewport creates a viewport over [traceStart, traceEnd) with the given
// display size, zoomed to fit the whole trace.
func NewViewport(traceStart, traceEnd int64, maxDepth, width, height int, opts ViewportOptions) *Viewport {
	if opts.MinTimePerPixel <= 0 {
		opts.MinTimePerPixel = defaultMinTimePerPixel
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = defaultRowHeight
	}
	if opts.DepthPadding <= 0 {
		opts.DepthPadding = defaultDepthPadding
	}
	v := &Viewport{
		traceStart:      traceStart,
		traceEnd:        traceEnd,
		maxDepth:        maxDepth,
		width:           math.Max(1, float64(width)),
		height:          math.Max(1, float64(height)),
		minTimePerPixel: opts.MinTimePerPixel,
		rowHeight:       opts.RowHeight,
		depthPadding:    opts.DepthPadding,
	}
	v.zoom = v.minZoom()
	v.clamp()
	return v
}

// duration returns the trace duration with a floor of one time unit so a
// degenerate trace never divides by zero.
func (v *Viewport) duration() float64 {
	d := float64(v.traceEnd - v.traceStart)
	if d < 1 {
		return 1
	}
	return d
}

func (v *Viewport) minZoom() float64 { return v.width / v.duration() }
func (v *Viewport) maxZoom() float64 { return 1 / v.minTimePerPixel }

// Zoom returns the current zoom in pixels per time unit.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Size returns the display dimensions in pixels.
func (v *Viewport) Size() (width, height float64) { return v.width, v.height }

// RowHeight returns the pixel height of one depth row.
func (v *Viewport) RowHeight() float64 { return v.rowHeight }

// TimeRange returns the visible [start, end) window in trace time.
func (v *Viewport) TimeRange() (start, end int64) {
	start = v.traceStart + int64(v.offsetX)
	end = start + int64(math.Ceil(v.width/v.zoom))
	return start, end
}

// DurationForPixels converts a pixel width to time units at current zoom.
// A degenerate zoom falls back to one time unit per pixel.
func (v *Viewport) DurationForPixels(px float64) float64 {
	if v.zoom <= 0 || math.IsNaN(v.zoom) || math.IsInf(v.zoom, 0) {
		return px
	}
	return px / v.zoom
}

// TimeToX converts a trace timestamp to a screen x coordinate.
func (v *Viewport) TimeToX(t int64) float64 {
	return (float64(t-v.traceStart) - v.offsetX) * v.zoom
}

// XToTime converts a screen x coordinate to a trace timestamp.
func (v *Viewport) XToTime(x float64) int64 {
	if v.zoom <= 0 {
		return v.traceStart
	}
	return v.traceStart + int64(v.offsetX+x/v.zoom)
}

// DepthToY converts a depth level to the screen y of the row's top edge.
// Depth zero sits at the bottom of the display and rows grow upward.
func (v *Viewport) DepthToY(depth int) float64 {
	return v.height + v.offsetY - float64(depth+1)*v.rowHeight
}

// YToDepth converts a screen y coordinate to a depth level (may be out of
// the indexed range; callers clamp).
func (v *Viewport) YToDepth(y float64) int {
	return int(math.Floor((v.height + v.offsetY - y) / v.rowHeight))
}

// DepthRange returns the inclusive range of depth levels with any part of
// their row inside the display. A row is visible when its top edge is above
// the bottom of the display and its bottom edge below the top.
func (v *Viewport) DepthRange() (lo, hi int) {
	lo = int(math.Floor(v.offsetY / v.rowHeight))
	if lo < 0 {
		lo = 0
	}
	hi = int(math.Ceil((v.height+v.offsetY)/v.rowHeight)) - 1
	if hi > v.maxDepth {
		hi = v.maxDepth
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// SetZoom sets the zoom, clamped, keeping the left edge stable.
func (v *Viewport) SetZoom(zoom float64) {
	v.zoom = zoom
	v.clamp()
}

// SetZoomAnchored sets the zoom while keeping the trace time currently at
// screen anchorX fixed at that pixel.
func (v *Viewport) SetZoomAnchored(zoom, anchorX float64) {
	anchorTime := v.offsetX + anchorX/v.zoom
	v.zoom = clampFloat(zoom, v.minZoom(), v.maxZoom())
	if math.IsNaN(v.zoom) || v.zoom <= 0 {
		v.zoom = 1
	}
	v.offsetX = anchorTime - anchorX/v.zoom
	v.clamp()
}

// ZoomBy scales the zoom by factor, anchored at anchorX.
func (v *Viewport) ZoomBy(factor, anchorX float64) {
	v.SetZoomAnchored(v.zoom*factor, anchorX)
}

// SetPan sets the absolute offsets (x in time units, y in pixels), clamped.
func (v *Viewport) SetPan(offsetX, offsetY float64) {
	v.offsetX = offsetX
	v.offsetY = offsetY
	v.clamp()
}

// PanBy shifts the window by a pixel delta.
func (v *Viewport) PanBy(dxPx, dyPx float64) {
	v.offsetX += dxPx / v.zoom
	v.offsetY += dyPx
	v.clamp()
}

// Resize changes the display size, preserving the visible time range by
// recomputing zoom for the new width.
func (v *Viewport) Resize(width, height int) {
	visible := v.width / v.zoom // time units on screen
	v.width = math.Max(1, float64(width))
	v.height = math.Max(1, float64(height))
	if visible > 0 {
		v.zoom = v.width / visible
	}
	v.clamp()
}

// clamp enforces every viewport invariant; all mutations funnel through it.
func (v *Viewport) clamp() {
	if math.IsNaN(v.zoom) || math.IsInf(v.zoom, 0) || v.zoom <= 0 {
		v.zoom = v.minZoom()
	}
	v.zoom = clampFloat(v.zoom, v.minZoom(), v.maxZoom())

	maxOffsetX := v.duration() - v.width/v.zoom
	if maxOffsetX < 0 {
		maxOffsetX = 0
	}
	if math.IsNaN(v.offsetX) {
		v.offsetX = 0
	}
	v.offsetX = clampFloat(v.offsetX, 0, maxOffsetX)

	maxOffsetY := float64(v.maxDepth+1)*v.rowHeight - v.height + v.depthPadding
	if maxOffsetY < 0 {
		maxOffsetY = 0
	}
	if math.IsNaN(v.offsetY) {
		v.offsetY = 0
	}
	v.offsetY = clampFloat(v.offsetY, 0, maxOffsetY)
}

func clampFloat(x, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(x, lo), hi)
}
