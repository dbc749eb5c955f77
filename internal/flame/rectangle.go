// Package flame is the indexing core of the viewer: it projects an event
// tree into renderable rectangles, builds a per-depth temporal index over
// them, and answers viewport queries with individually visible rectangles
// plus level-of-detail buckets for everything below the pixel threshold.
package flame

import (
	"github.com/flamegrid/flamegrid/internal/category"
	"github.com/flamegrid/flamegrid/internal/trace"
)

// Rect is the renderable projection of one event. The time/identity fields
// are fixed at projection time; X and W are screen coordinates rewritten by
// every query and are only valid until the next Query call. A Rect is owned
// by the index leaf that references it and is not safe for concurrent
// queries.
type Rect struct {
	ID    int32
	Start int64
	End   int64
	Depth int32

	Duration int64
	SelfTime int64
	Kind     category.Kind

	Event *trace.Event

	// Screen fields, recomputed per query.
	X float64
	W float64
}

// Span returns the rectangle's time width with a floor of one time unit,
// matching the node-span floor used by the index.
func (r *Rect) Span() int64 {
	s := r.End - r.Start
	if s < 1 {
		return 1
	}
	return s
}
