package flame

import (
	"sort"

	"github.com/flamegrid/flamegrid/internal/category"
	"github.com/flamegrid/flamegrid/internal/logging"
)

// visibilityPx is the pixel threshold below which events are summarized
// into buckets instead of drawn individually.
const visibilityPx = 2.0

// QueryStats summarizes one query for diagnostics.
type QueryStats struct {
	VisibleCount       int `json:"visible_count"`
	BucketedEventCount int `json:"bucketed_event_count"`
	BucketCount        int `json:"bucket_count"`
	MaxEventsPerBucket int `json:"max_events_per_bucket"`
}

// QueryResult is the renderer-facing output of one viewport query. The
// slices alias the culler's scratch buffers and the Rects are shared with
// the index, so a result is valid only until the next Query call.
type QueryResult struct {
	Visible [category.NumKinds][]*Rect
	Buckets [category.NumKinds][]*Bucket
	Stats   QueryStats
}

// Culler answers viewport queries against an Index. It owns pre-sized
// scratch buffers reused across queries, so a Culler must not be shared
// between concurrent queries; one query must finish (and its result be
// consumed) before the next begins.
type Culler struct {
	ix      *Index
	palette func(category.Kind) string

	// Scratch, cleared (not reallocated) each query. The pool hands out
	// stable pointers, so grown capacity survives across queries.
	res      QueryResult
	stack    []*segNode
	cells    map[bucketKey]*Bucket
	pool     []*Bucket
	poolUsed int
	order    []*Bucket
}

// NewCuller creates a query engine over ix, coloring buckets from the
// index's category table.
func NewCuller(ix *Index) *Culler {
	c := &Culler{
		ix:    ix,
		stack: make([]*segNode, 0, 128),
		cells: make(map[bucketKey]*Bucket, 256),
		pool:  make([]*Bucket, 0, 256),
		order: make([]*Bucket, 0, 256),
	}
	c.palette = func(k category.Kind) string { return ix.Table().Color(k) }
	return c
}

// SetPalette overrides the bucket/rect color source, e.g. for theme
// remapping. A nil palette restores the table's base colors.
func (c *Culler) SetPalette(palette func(category.Kind) string) {
	if palette == nil {
		palette = func(k category.Kind) string { return c.ix.Table().Color(k) }
	}
	c.palette = palette
}

// Palette returns the active color source.
func (c *Culler) Palette() func(category.Kind) string { return c.palette }

// Query culls the index against the viewport: events wider than two screen
// pixels are returned individually (with their screen x/width rewritten for
// the current zoom/offset), everything smaller is merged into grid-aligned
// buckets. Ranges outside the indexed data simply return empty results.
func (c *Culler) Query(vp *Viewport) *QueryResult {
	c.reset()

	queryStart, queryEnd := vp.TimeRange()
	// The threshold stays fractional: at fine zooms two pixels cover less
	// than one time unit, and since node spans floor at one unit nothing
	// buckets there. The grid width only matters once something does.
	threshold := vp.DurationForPixels(visibilityPx)
	gridWidth := int64(threshold)
	if gridWidth < 1 {
		gridWidth = 1
	}

	loDepth, hiDepth := vp.DepthRange()
	for depth := loDepth; depth <= hiDepth; depth++ {
		root := c.ix.root(depth)
		if root == nil {
			continue
		}
		c.cullDepth(root, queryStart, queryEnd, threshold, gridWidth, vp)
	}

	c.finish(gridWidth, vp)

	logger := logging.Component("flame")
	logger.Trace().
		Int("visible", c.res.Stats.VisibleCount).
		Int("buckets", c.res.Stats.BucketCount).
		Int("bucketed_events", c.res.Stats.BucketedEventCount).
		Msg("viewport query")

	return &c.res
}

// cullDepth walks one depth tree with an explicit stack. A node outside the
// query window is pruned; a node whose span fits under the threshold is
// summarized as a single unit regardless of its children's spans; leaves
// above the threshold become visible rectangles.
func (c *Culler) cullDepth(root *segNode, queryStart, queryEnd int64, threshold float64, gridWidth int64, vp *Viewport) {
	c.stack = append(c.stack[:0], root)
	for len(c.stack) > 0 {
		n := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		if n.end <= queryStart || n.start >= queryEnd {
			continue
		}

		if float64(n.span) <= threshold {
			c.bucketize(n, gridWidth)
			continue
		}

		if n.leaf() {
			r := n.rect
			r.X = vp.TimeToX(r.Start)
			r.W = float64(r.Span()) * vp.Zoom()
			c.res.Visible[r.Kind] = append(c.res.Visible[r.Kind], r)
			c.res.Stats.VisibleCount++
			continue
		}

		for i := len(n.children) - 1; i >= 0; i-- {
			c.stack = append(c.stack, n.children[i])
		}
	}
}

// bucketize merges a whole subtree into its grid cell, allocating the cell
// from the pooled scratch on first touch.
func (c *Culler) bucketize(n *segNode, width int64) {
	depth := int32(0)
	if n.leaf() {
		depth = n.rect.Depth
	} else {
		// Every leaf under a branch shares the branch's depth level.
		depth = firstLeaf(n).Depth
	}

	idx := bucketIndex(n.start, width)
	key := bucketKey{depth: depth, index: idx}
	b := c.cells[key]
	if b == nil {
		b = c.allocBucket()
		b.Start = idx * width
		b.End = (idx + 1) * width
		b.Depth = depth
		c.cells[key] = b
		c.order = append(c.order, b)
	}
	b.absorb(n, c.ix.Table())
}

// allocBucket hands out the next pooled bucket, zeroed for reuse.
func (c *Culler) allocBucket() *Bucket {
	if c.poolUsed < len(c.pool) {
		b := c.pool[c.poolUsed]
		c.poolUsed++
		*b = Bucket{}
		return b
	}
	b := &Bucket{}
	c.pool = append(c.pool, b)
	c.poolUsed++
	return b
}

// finish resolves color/opacity and screen coordinates for every bucket and
// fills the query stats. Buckets are emitted in (depth, start) order so
// identical queries yield identical results.
func (c *Culler) finish(width int64, vp *Viewport) {
	sort.Slice(c.order, func(i, j int) bool {
		if c.order[i].Depth != c.order[j].Depth {
			return c.order[i].Depth < c.order[j].Depth
		}
		return c.order[i].Start < c.order[j].Start
	})

	for _, b := range c.order {
		b.resolve(c.palette)
		b.X = vp.TimeToX(b.Start)
		b.W = float64(width) * vp.Zoom()
		c.res.Buckets[b.Dominant] = append(c.res.Buckets[b.Dominant], b)

		c.res.Stats.BucketCount++
		c.res.Stats.BucketedEventCount += b.Count
		if b.Count > c.res.Stats.MaxEventsPerBucket {
			c.res.Stats.MaxEventsPerBucket = b.Count
		}
	}
}

// reset clears scratch state without releasing capacity.
func (c *Culler) reset() {
	for k := range c.res.Visible {
		c.res.Visible[k] = c.res.Visible[k][:0]
		c.res.Buckets[k] = c.res.Buckets[k][:0]
	}
	c.res.Stats = QueryStats{}
	c.stack = c.stack[:0]
	c.poolUsed = 0
	c.order = c.order[:0]
	for k := range c.cells {
		delete(c.cells, k)
	}
}

// firstLeaf descends first children to the leftmost leaf rect.
func firstLeaf(n *segNode) *Rect {
	for !n.leaf() {
		n = n.children[0]
	}
	return n.rect
}
