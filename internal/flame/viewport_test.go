package flame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViewport() *Viewport {
	// 1000-unit trace on a 100x50 display, 10 depth levels.
	return NewViewport(0, 1000, 9, 100, 50, ViewportOptions{RowHeight: 1, DepthPadding: 2})
}

func TestViewportStartsFittingWholeTrace(t *testing.T) {
	vp := testViewport()

	assert.InDelta(t, 0.1, vp.Zoom(), 1e-9)
	start, end := vp.TimeRange()
	assert.Equal(t, int64(0), start)
	assert.GreaterOrEqual(t, end, int64(1000))
}

func TestViewportZoomClamps(t *testing.T) {
	vp := testViewport()

	vp.SetZoom(1e12)
	assert.InDelta(t, 1/defaultMinTimePerPixel, vp.Zoom(), 1e-9)

	vp.SetZoom(1e-12)
	assert.InDelta(t, 0.1, vp.Zoom(), 1e-9, "cannot zoom out past fit-whole-trace")

	vp.SetZoom(math.NaN())
	assert.False(t, math.IsNaN(vp.Zoom()))
	assert.Greater(t, vp.Zoom(), 0.0)
}

func TestViewportPanClamps(t *testing.T) {
	vp := testViewport()
	vp.SetZoom(1) // 100-unit window over a 1000-unit trace

	vp.SetPan(-500, 0)
	start, _ := vp.TimeRange()
	assert.Equal(t, int64(0), start, "cannot pan before the trace start")

	vp.SetPan(1e9, 0)
	start, end := vp.TimeRange()
	assert.LessOrEqual(t, end, int64(1001))
	assert.Equal(t, int64(900), start, "cannot pan past the trace end")
}

func TestViewportVerticalClamp(t *testing.T) {
	vp := testViewport()

	// Depth 0 must never scroll below the bottom edge.
	vp.SetPan(0, -1e9)
	assert.InDelta(t, 49.0, vp.DepthToY(0), 1e-9)

	// The deepest row may scroll at most DepthPadding past the top. With 10
	// rows on a 50px display everything fits, so scrolling stays pinned.
	vp.SetPan(0, 1e9)
	assert.InDelta(t, 49.0, vp.DepthToY(0), 1e-9)

	// Taller than the display: max scroll leaves the deepest row's top edge
	// DepthPadding pixels below the display top, never further.
	tall := NewViewport(0, 1000, 99, 100, 50, ViewportOptions{RowHeight: 1, DepthPadding: 2})
	tall.SetPan(0, 1e9)
	assert.InDelta(t, 2.0, tall.DepthToY(99), 1e-9)
}

func TestViewportAnchoredZoomKeepsAnchorStable(t *testing.T) {
	vp := testViewport()
	vp.SetZoom(1)
	vp.SetPan(400, 0)

	anchorX := 30.0
	anchorTime := vp.XToTime(anchorX)

	vp.SetZoomAnchored(4, anchorX)

	assert.InDelta(t, float64(anchorX), vp.TimeToX(anchorTime), 1.0)
	assert.InDelta(t, 4.0, vp.Zoom(), 1e-9)
}

func TestViewportResizePreservesVisibleRange(t *testing.T) {
	vp := testViewport()
	vp.SetZoom(1)
	vp.SetPan(200, 0)
	startBefore, endBefore := vp.TimeRange()

	vp.Resize(200, 50)

	startAfter, endAfter := vp.TimeRange()
	assert.Equal(t, startBefore, startAfter)
	assert.InDelta(t, float64(endBefore-startBefore), float64(endAfter-startAfter), 2)
	assert.InDelta(t, 2.0, vp.Zoom(), 1e-9)
}

func TestViewportDegenerateTrace(t *testing.T) {
	// Zero-duration trace must not produce NaN/Inf anywhere.
	vp := NewViewport(500, 500, 0, 100, 50, ViewportOptions{})

	assert.False(t, math.IsNaN(vp.Zoom()))
	assert.False(t, math.IsInf(vp.Zoom(), 0))
	assert.Greater(t, vp.DurationForPixels(2), 0.0)

	start, end := vp.TimeRange()
	assert.GreaterOrEqual(t, end, start)
}

func TestViewportTimeConversionsRoundTrip(t *testing.T) {
	vp := testViewport()
	vp.SetZoom(0.5)
	vp.SetPan(100, 0)

	for _, ts := range []int64{100, 150, 250} {
		x := vp.TimeToX(ts)
		back := vp.XToTime(x)
		assert.InDelta(t, float64(ts), float64(back), 2.0, "time %d", ts)
	}
}

func TestViewportDepthRange(t *testing.T) {
	vp := NewViewport(0, 1000, 99, 100, 50, ViewportOptions{RowHeight: 1})

	lo, hi := vp.DepthRange()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 49, hi, "only the bottom 50 rows are visible")

	vp.PanBy(0, 20)
	lo, hi = vp.DepthRange()
	require.Equal(t, 20, lo)
	assert.Equal(t, 69, hi)
}
