// Package trace holds the event-tree data model and the loaders that
// produce it from capture files.
package trace

import (
	"sort"

	"github.com/google/uuid"
)

// Event is one node of the execution trace: a call (or declarative unit)
// with a time span, a nesting depth, and ordered children. Events are
// immutable once a Trace has been loaded.
type Event struct {
	ID       string
	Name     string
	Category string

	// Start and End are nanosecond offsets from the trace start. End == 0
	// together with Duration == 0 marks an event that was still open when
	// the capture stopped; the loader clamps it to the trace end.
	Start int64
	End   int64

	// Duration is End - Start. SelfTime is the portion of Duration not
	// attributable to children.
	Duration int64
	SelfTime int64

	Depth    int
	Children []*Event
}

// Trace is a fully loaded event tree.
type Trace struct {
	ID    string
	Name  string
	Start int64
	End   int64

	Roots      []*Event
	EventCount int
	MaxDepth   int
}

// finalize normalizes a freshly parsed tree in one iterative pass per
// concern: clamps open events, fills derived durations, assigns depths,
// sorts children by start time, and computes trace bounds.
func finalize(t *Trace) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	// Trace bounds: roots bound the start, any event may bound the end
	// (open-ended captures can carry a deep event past its parent's end).
	for i, r := range t.Roots {
		if i == 0 || r.Start < t.Start {
			t.Start = r.Start
		}
	}

	end := t.End
	stack := make([]*Event, 0, 64)
	stack = append(stack, t.Roots...)
	for len(stack) > 0 {
		ev := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if ev.End > end {
			end = ev.End
		}
		stack = append(stack, ev.Children...)
	}
	t.End = end

	count := 0
	maxDepth := 0
	type frame struct {
		ev    *Event
		depth int
	}
	work := make([]frame, 0, 64)
	for _, r := range t.Roots {
		work = append(work, frame{ev: r, depth: 0})
	}
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]
		ev := f.ev

		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		ev.Depth = f.depth
		if f.depth > maxDepth {
			maxDepth = f.depth
		}
		count++

		// Still-open event: clamp to the capture end.
		if ev.End == 0 && ev.Duration == 0 && ev.Start < t.End {
			ev.End = t.End
		}
		if ev.End < ev.Start {
			ev.End = ev.Start
		}
		if ev.Duration == 0 {
			ev.Duration = ev.End - ev.Start
		}

		sort.SliceStable(ev.Children, func(i, j int) bool {
			return ev.Children[i].Start < ev.Children[j].Start
		})

		if ev.SelfTime == 0 {
			childTotal := int64(0)
			for _, c := range ev.Children {
				d := c.Duration
				if d == 0 {
					d = c.End - c.Start
				}
				// Open-ended children have no usable span yet.
				if d > 0 {
					childTotal += d
				}
			}
			self := ev.Duration - childTotal
			if self < 0 {
				self = 0
			}
			ev.SelfTime = self
		}

		for _, c := range ev.Children {
			work = append(work, frame{ev: c, depth: f.depth + 1})
		}
	}

	t.EventCount = count
	t.MaxDepth = maxDepth
}

// Duration returns the total trace duration in nanoseconds.
func (t *Trace) Duration() int64 {
	d := t.End - t.Start
	if d < 0 {
		return 0
	}
	return d
}
