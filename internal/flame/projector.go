package flame

import (
	"sort"

	"github.com/flamegrid/flamegrid/internal/category"
	"github.com/flamegrid/flamegrid/internal/trace"
)

// Projection is the flattened form of an event tree: one Rect per renderable
// event, grouped by category (time-sorted) and by depth. Built once per
// loaded trace.
type Projection struct {
	ByKind  [category.NumKinds][]*Rect
	ByDepth [][]*Rect

	Start    int64
	End      int64
	MaxDepth int
	Total    int
}

// Project flattens the event tree in one linear pass using an explicit
// stack; capture trees can be arbitrarily deep. An event with non-positive
// total duration is skipped together with all of its descendants, matching
// the upstream parser's behavior (a positive-duration child under a
// zero-duration parent is therefore also dropped).
func Project(t *trace.Trace) *Projection {
	p := &Projection{
		Start: t.Start,
		End:   t.End,
	}

	type frame struct {
		ev    *trace.Event
		depth int32
	}
	stack := make([]frame, 0, 256)
	for i := len(t.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{ev: t.Roots[i], depth: 0})
	}

	nextID := int32(0)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ev := f.ev

		if ev.Duration <= 0 {
			continue
		}

		r := &Rect{
			ID:       nextID,
			Start:    ev.Start,
			End:      ev.End,
			Depth:    f.depth,
			Duration: ev.Duration,
			SelfTime: ev.SelfTime,
			Kind:     category.Parse(ev.Category),
			Event:    ev,
		}
		nextID++

		p.ByKind[r.Kind] = append(p.ByKind[r.Kind], r)
		for int(f.depth) >= len(p.ByDepth) {
			p.ByDepth = append(p.ByDepth, nil)
		}
		p.ByDepth[f.depth] = append(p.ByDepth[f.depth], r)
		if int(f.depth) > p.MaxDepth {
			p.MaxDepth = int(f.depth)
		}
		p.Total++

		for i := len(ev.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{ev: ev.Children[i], depth: f.depth + 1})
		}
	}

	// Pre-order leaves each group nearly sorted; make the ordering exact.
	for k := range p.ByKind {
		rs := p.ByKind[k]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })
	}
	for d := range p.ByDepth {
		rs := p.ByDepth[d]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })
	}

	return p
}

// Duration returns the projected trace duration with a floor of zero.
func (p *Projection) Duration() int64 {
	d := p.End - p.Start
	if d < 0 {
		return 0
	}
	return d
}
