package flame

import (
	"errors"
	"math"

	"github.com/flamegrid/flamegrid/internal/category"
)

// ErrBadBucketCount is returned when a density computation is asked for a
// non-positive number of buckets.
var ErrBadBucketCount = errors.New("density bucket count must be positive")

// DensityBucket is one cell of the whole-trace overview strip.
type DensityBucket struct {
	Start int64
	End   int64

	MaxDepth int
	Count    int
	Dominant category.Kind

	// SelfTime is the summed self-duration that falls inside the bucket,
	// each event contributing the fraction of its span that overlaps.
	SelfTime float64
}

// DensityResult is the minimap-facing output: a fixed number of buckets
// spanning the entire trace plus the global maxima used for normalization.
type DensityResult struct {
	Buckets  []DensityBucket
	MaxDepth int
	MaxCount int
}

// Computer produces a whole-trace density aggregation. The two
// implementations (direct per-rectangle aggregation and index sweep) must
// agree on the dominant category for unambiguous inputs; they are
// cross-validated in tests.
type Computer interface {
	Compute(bucketCount int) (DensityResult, error)
}

// Density caches a Computer's result, recomputing only when the bucket
// count changes (display resize) or Invalidate is called (data change).
type Density struct {
	comp Computer

	cachedCount int
	cached      DensityResult
	valid       bool
}

// NewDensity wraps comp with result caching.
func NewDensity(comp Computer) *Density {
	return &Density{comp: comp}
}

// Buckets returns the density result for the given bucket count, cached.
func (d *Density) Buckets(bucketCount int) (DensityResult, error) {
	if d.valid && d.cachedCount == bucketCount {
		return d.cached, nil
	}
	res, err := d.comp.Compute(bucketCount)
	if err != nil {
		return DensityResult{}, err
	}
	d.cached = res
	d.cachedCount = bucketCount
	d.valid = true
	return res, nil
}

// Invalidate drops the cache; the next Buckets call recomputes.
func (d *Density) Invalidate() {
	d.valid = false
}

// DirectDensity aggregates density in one linear pass over all projected
// rectangles. Each rectangle contributes to every bucket it overlaps,
// weighted by (depth+1)² times the category weight for dominance and by its
// overlap fraction for the self-time sparkline.
type DirectDensity struct {
	proj *Projection
	tbl  *category.Table
}

// NewDirectDensity creates the linear-pass strategy over proj.
func NewDirectDensity(proj *Projection, tbl *category.Table) *DirectDensity {
	return &DirectDensity{proj: proj, tbl: tbl}
}

// Compute implements Computer.
func (d *DirectDensity) Compute(bucketCount int) (DensityResult, error) {
	if bucketCount <= 0 {
		return DensityResult{}, ErrBadBucketCount
	}

	grid := newDensityGrid(d.proj.Start, d.proj.End, bucketCount)
	weights := make([][category.NumKinds]float64, bucketCount)

	for _, rects := range d.proj.ByDepth {
		for _, r := range rects {
			lo, hi := grid.overlapRange(r.Start, r.End)
			for i := lo; i <= hi; i++ {
				bs, be := grid.bounds(i)
				overlap := overlapNs(r.Start, r.End, bs, be)
				if overlap <= 0 && r.Start != r.End {
					continue
				}

				b := &grid.buckets[i]
				b.Count++
				if int(r.Depth) > b.MaxDepth {
					b.MaxDepth = int(r.Depth)
				}
				if r.Duration > 0 {
					frac := float64(overlap) / float64(r.Duration)
					b.SelfTime += float64(r.SelfTime) * frac
				}

				w := float64(overlap) * float64(r.Depth+1) * float64(r.Depth+1) * d.tbl.Weight(r.Kind)
				if w <= 0 {
					// Instantaneous events still vote with a minimal weight.
					w = float64(r.Depth+1) * float64(r.Depth+1) * d.tbl.Weight(r.Kind)
				}
				weights[i][r.Kind] += w
			}
		}
	}

	for i := range grid.buckets {
		grid.buckets[i].Dominant = d.dominantByWeight(&weights[i])
	}
	return grid.result(), nil
}

// dominantByWeight picks the heaviest category; ties break toward the
// higher-priority (lower-numbered) category so both strategies agree.
func (d *DirectDensity) dominantByWeight(w *[category.NumKinds]float64) category.Kind {
	best := category.KindOther
	bestW := 0.0
	for i := range w {
		k := category.Kind(i)
		if w[i] <= 0 {
			continue
		}
		switch {
		case w[i] > bestW:
			best, bestW = k, w[i]
		case w[i] == bestW && bestW > 0 && d.tbl.Priority(k) < d.tbl.Priority(best):
			best = k
		}
	}
	return best
}

// densityGrid is the shared bucket scaffolding for both strategies.
type densityGrid struct {
	start   int64
	end     int64
	width   float64
	buckets []DensityBucket
}

func newDensityGrid(start, end int64, bucketCount int) *densityGrid {
	dur := float64(end - start)
	if dur < 1 {
		dur = 1
	}
	g := &densityGrid{
		start:   start,
		end:     end,
		width:   dur / float64(bucketCount),
		buckets: make([]DensityBucket, bucketCount),
	}
	for i := range g.buckets {
		bs, be := g.bounds(i)
		g.buckets[i].Start = bs
		g.buckets[i].End = be
	}
	return g
}

// bounds returns bucket i's [start, end) in trace time.
func (g *densityGrid) bounds(i int) (int64, int64) {
	bs := g.start + int64(math.Floor(float64(i)*g.width))
	be := g.start + int64(math.Floor(float64(i+1)*g.width))
	if i == len(g.buckets)-1 || be > g.end {
		be = g.end
	}
	if be < bs {
		be = bs
	}
	return bs, be
}

// overlapRange returns the inclusive bucket index range a time span touches.
func (g *densityGrid) overlapRange(start, end int64) (int, int) {
	if g.width <= 0 {
		return 0, 0
	}
	lo := int(float64(start-g.start) / g.width)
	last := end - 1
	if last < start {
		last = start
	}
	hi := int(float64(last-g.start) / g.width)
	return clampInt(lo, 0, len(g.buckets)-1), clampInt(hi, 0, len(g.buckets)-1)
}

func (g *densityGrid) result() DensityResult {
	res := DensityResult{Buckets: g.buckets}
	for i := range g.buckets {
		if g.buckets[i].MaxDepth > res.MaxDepth {
			res.MaxDepth = g.buckets[i].MaxDepth
		}
		if g.buckets[i].Count > res.MaxCount {
			res.MaxCount = g.buckets[i].Count
		}
	}
	return res
}

func overlapNs(aStart, aEnd, bStart, bEnd int64) int64 {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	return hi - lo
}

func clampInt(x, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
