package flame

import (
	"math"

	"github.com/flamegrid/flamegrid/internal/category"
)

// Opacity bounds for the bucket density indicator.
const (
	minBucketOpacity = 0.3
	maxBucketOpacity = 0.9
)

// Bucket is a grid-aligned time/depth cell aggregating sub-threshold
// events. Buckets are ephemeral: recomputed on every query, never kept.
type Bucket struct {
	Start int64
	End   int64
	Depth int32

	Count    int
	Stats    category.StatSet
	Dominant category.Kind

	Color   string
	Opacity float64

	// Screen fields, set when the query resolves the bucket.
	X float64
	W float64
}

// bucketKey identifies a grid cell; subtrees landing in the same cell merge.
type bucketKey struct {
	depth int32
	index int64
}

// bucketIndex returns the grid cell index for a timestamp at the given
// bucket width. The grid is absolute (anchored at time zero), so alignment
// is stable under panning.
func bucketIndex(t, width int64) int64 {
	if width <= 0 {
		return 0
	}
	idx := t / width
	if t < 0 && t%width != 0 {
		idx--
	}
	return idx
}

// absorb merges a subtree's aggregates into the bucket and re-resolves the
// dominant category incrementally against the challenger's dominant.
func (b *Bucket) absorb(n *segNode, tbl *category.Table) {
	b.Count += n.count
	b.Stats.Merge(&n.stats)
	b.Dominant = tbl.Challenge(&b.Stats, b.Dominant, n.dominant)
}

// resolve computes the bucket's display color and opacity from its merged
// stats. The color is the dominant category's base color with no hue
// blending; palette maps a category to its themed color.
func (b *Bucket) resolve(palette func(category.Kind) string) {
	b.Color = palette(b.Dominant)
	b.Opacity = Opacity(b.Count)
}

// Opacity maps an event count to a bucket opacity on a log10 scale:
// one event renders at the 0.3 floor, one hundred or more saturate at 0.9,
// and the 1→10 step equals the 10→100 step.
func Opacity(eventCount int) float64 {
	if eventCount < 1 {
		return minBucketOpacity
	}
	o := minBucketOpacity + 0.6*math.Log10(float64(eventCount))/2
	return clampFloat(o, minBucketOpacity, maxBucketOpacity)
}
