package flame

import (
	"sort"

	"github.com/flamegrid/flamegrid/internal/category"
)

// SweepDensity computes the overview by collecting every leaf frame from
// the temporal index once, then sliding a window across the output buckets.
// Inside each window a skyline sweep finds, for every instant, the topmost
// (deepest) frame and accumulates "on-top" time per category; the dominant
// category is the one with the largest on-top time after weighting.
// Unambiguous windows (single category, or one frame strictly covering and
// outdeepening the rest) skip the sweep through a fast path.
type SweepDensity struct {
	ix  *Index
	tbl *category.Table

	// Scratch reused across Compute calls.
	active []*Rect
	points []int64
	onTop  [category.NumKinds]float64
}

// NewSweepDensity creates the index-sweep strategy over ix.
func NewSweepDensity(ix *Index) *SweepDensity {
	return &SweepDensity{ix: ix, tbl: ix.Table()}
}

// Compute implements Computer.
func (s *SweepDensity) Compute(bucketCount int) (DensityResult, error) {
	if bucketCount <= 0 {
		return DensityResult{}, ErrBadBucketCount
	}

	proj := s.ix.Projection()
	frames := s.ix.leafFrames(make([]*Rect, 0, proj.Total))
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Start < frames[j].Start })

	grid := newDensityGrid(proj.Start, proj.End, bucketCount)

	next := 0 // first frame not yet admitted to the window
	s.active = s.active[:0]
	for i := range grid.buckets {
		bs, be := grid.bounds(i)

		// Slide: admit frames starting before the window end, evict frames
		// that ended at or before the window start.
		for next < len(frames) && frames[next].Start < be {
			s.active = append(s.active, frames[next])
			next++
		}
		keep := s.active[:0]
		for _, f := range s.active {
			if f.End > bs {
				keep = append(keep, f)
			}
		}
		s.active = keep

		b := &grid.buckets[i]
		for _, f := range s.active {
			if f.Start >= be {
				continue
			}
			b.Count++
			if int(f.Depth) > b.MaxDepth {
				b.MaxDepth = int(f.Depth)
			}
			if f.Duration > 0 {
				overlap := overlapNs(f.Start, f.End, bs, be)
				if overlap > 0 {
					b.SelfTime += float64(f.SelfTime) * float64(overlap) / float64(f.Duration)
				}
			}
		}
		b.Dominant = s.dominantIn(bs, be)
	}

	return grid.result(), nil
}

// dominantIn resolves the dominant category for one window.
func (s *SweepDensity) dominantIn(bs, be int64) category.Kind {
	overlapping := 0
	sameKind := true
	var kind category.Kind
	for _, f := range s.active {
		if f.Start >= be {
			continue
		}
		if overlapping == 0 {
			kind = f.Kind
		} else if f.Kind != kind {
			sameKind = false
		}
		overlapping++
	}
	if overlapping == 0 {
		return category.KindOther
	}

	// Fast path: one category present.
	if sameKind {
		return kind
	}

	// Fast path: a frame spanning the whole window and strictly deeper than
	// every other overlapping frame is on top throughout.
	if top := s.coveringTop(bs, be); top != nil {
		return top.Kind
	}

	return s.skyline(bs, be)
}

// coveringTop returns a frame covering [bs, be) whose depth strictly
// exceeds all other overlapping frames, or nil.
func (s *SweepDensity) coveringTop(bs, be int64) *Rect {
	var cover *Rect
	maxDepth := int32(-1)
	deepTies := 0
	for _, f := range s.active {
		if f.Start >= be {
			continue
		}
		if f.Depth > maxDepth {
			maxDepth = f.Depth
			deepTies = 1
		} else if f.Depth == maxDepth {
			deepTies++
		}
		if f.Start <= bs && f.End >= be {
			if cover == nil || f.Depth > cover.Depth {
				cover = f
			}
		}
	}
	if cover != nil && cover.Depth == maxDepth && deepTies == 1 {
		return cover
	}
	return nil
}

// skyline sweeps the window's frame boundaries and credits each segment's
// length to the deepest frame overlapping it.
func (s *SweepDensity) skyline(bs, be int64) category.Kind {
	s.points = s.points[:0]
	s.points = append(s.points, bs, be)
	for _, f := range s.active {
		if f.Start >= be {
			continue
		}
		if f.Start > bs && f.Start < be {
			s.points = append(s.points, f.Start)
		}
		if f.End > bs && f.End < be {
			s.points = append(s.points, f.End)
		}
	}
	sort.Slice(s.points, func(i, j int) bool { return s.points[i] < s.points[j] })

	for k := range s.onTop {
		s.onTop[k] = 0
	}
	prev := s.points[0]
	for _, p := range s.points[1:] {
		if p == prev {
			continue
		}
		var top *Rect
		for _, f := range s.active {
			if f.Start >= p || f.End <= prev {
				continue
			}
			if top == nil || f.Depth > top.Depth {
				top = f
			}
		}
		if top != nil {
			s.onTop[top.Kind] += float64(p - prev)
		}
		prev = p
	}

	best := category.KindOther
	bestW := 0.0
	for i := range s.onTop {
		k := category.Kind(i)
		w := s.onTop[i] * s.tbl.Weight(k)
		if w <= 0 {
			continue
		}
		switch {
		case w > bestW:
			best, bestW = k, w
		case w == bestW && s.tbl.Priority(k) < s.tbl.Priority(best):
			best = k
		}
	}
	return best
}
