package flame

import (
	"time"

	"github.com/flamegrid/flamegrid/internal/category"
	"github.com/flamegrid/flamegrid/internal/logging"
)

// Index is the temporal index over a projection: one segment tree per depth
// level, with no cross-depth linkage. Built once per loaded trace and
// immutable afterward; loading a new trace means building a new Index (or
// calling Reset, which discards and rebuilds everything including lazy
// lookups). At most one query may be in flight at a time, because queries
// rewrite the screen fields of shared Rects.
type Index struct {
	tbl   category.Table
	proj  *Projection
	roots []*segNode

	// byID is built lazily on first lookup and discarded by Reset.
	byID map[int32]*Rect
}

// NewIndex builds the per-depth segment trees over proj.
func NewIndex(proj *Projection, tbl category.Table) *Index {
	ix := &Index{tbl: tbl}
	ix.Reset(proj)
	return ix
}

// Reset discards the index and rebuilds it from proj, invalidating any
// lazily built lookup structures.
func (ix *Index) Reset(proj *Projection) {
	started := time.Now()

	ix.proj = proj
	ix.byID = nil
	ix.roots = make([]*segNode, len(proj.ByDepth))
	for d, rects := range proj.ByDepth {
		ix.roots[d] = buildDepthTree(rects, &ix.tbl)
	}

	logger := logging.Component("flame")
	logger.Info().
		Int("rects", proj.Total).
		Int("depths", len(proj.ByDepth)).
		Dur("took", time.Since(started)).
		Msg("temporal index built")
}

// Table returns the category attribute table the index resolves with.
func (ix *Index) Table() *category.Table { return &ix.tbl }

// Projection returns the projection the index was built over.
func (ix *Index) Projection() *Projection { return ix.proj }

// MaxDepth returns the deepest indexed level.
func (ix *Index) MaxDepth() int { return ix.proj.MaxDepth }

// RectByID returns the rectangle with the given identity, or nil. The
// lookup map is built on first use.
func (ix *Index) RectByID(id int32) *Rect {
	if ix.byID == nil {
		ix.byID = make(map[int32]*Rect, ix.proj.Total)
		for _, rects := range ix.proj.ByDepth {
			for _, r := range rects {
				ix.byID[r.ID] = r
			}
		}
	}
	return ix.byID[id]
}

// root returns the segment tree for one depth, or nil when the depth holds
// no events.
func (ix *Index) root(depth int) *segNode {
	if depth < 0 || depth >= len(ix.roots) {
		return nil
	}
	return ix.roots[depth]
}

// leafFrames appends every leaf in depth order to dst and returns it; the
// density sweep strategy collects frames this way once per computation.
func (ix *Index) leafFrames(dst []*Rect) []*Rect {
	for _, rects := range ix.proj.ByDepth {
		dst = append(dst, rects...)
	}
	return dst
}
