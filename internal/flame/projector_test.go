package flame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamegrid/flamegrid/internal/category"
	"github.com/flamegrid/flamegrid/internal/trace"
)

// ev builds a test event; Duration/SelfTime derive from the span.
func ev(cat string, start, end int64, children ...*trace.Event) *trace.Event {
	childTotal := int64(0)
	for _, c := range children {
		childTotal += c.Duration
	}
	self := end - start - childTotal
	if self < 0 {
		self = 0
	}
	return &trace.Event{
		Name:     cat,
		Category: cat,
		Start:    start,
		End:      end,
		Duration: end - start,
		SelfTime: self,
		Children: children,
	}
}

// mkTrace assembles roots into a trace with correct bounds.
func mkTrace(roots ...*trace.Event) *trace.Trace {
	tr := &trace.Trace{Roots: roots}
	for i, r := range roots {
		if i == 0 || r.Start < tr.Start {
			tr.Start = r.Start
		}
		if r.End > tr.End {
			tr.End = r.End
		}
	}
	return tr
}

func TestProjectFlattensTree(t *testing.T) {
	tr := mkTrace(
		ev("Code Unit", 0, 100,
			ev("Method", 10, 40,
				ev("SOQL", 20, 30),
			),
			ev("DML", 50, 90),
		),
	)

	p := Project(tr)

	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.MaxDepth)
	require.Len(t, p.ByDepth, 3)
	assert.Len(t, p.ByDepth[0], 1)
	assert.Len(t, p.ByDepth[1], 2)
	assert.Len(t, p.ByDepth[2], 1)

	assert.Len(t, p.ByKind[category.KindCodeUnit], 1)
	assert.Len(t, p.ByKind[category.KindMethod], 1)
	assert.Len(t, p.ByKind[category.KindSOQL], 1)
	assert.Len(t, p.ByKind[category.KindDML], 1)
}

func TestProjectSkipsZeroDurationSubtrees(t *testing.T) {
	// The positive-duration child under a zero-duration parent is dropped
	// too; the projector mirrors the upstream parser here.
	zero := ev("Method", 10, 10,
		ev("SOQL", 10, 20),
	)
	tr := mkTrace(
		ev("Code Unit", 0, 100, zero),
	)

	p := Project(tr)

	assert.Equal(t, 1, p.Total)
	assert.Empty(t, p.ByKind[category.KindSOQL])
	assert.Empty(t, p.ByKind[category.KindMethod])
}

func TestProjectGroupsAreTimeSorted(t *testing.T) {
	tr := mkTrace(
		ev("Method", 0, 30),
		ev("Method", 40, 70,
			ev("Method", 45, 50),
		),
		ev("Method", 80, 95),
	)

	p := Project(tr)

	rects := p.ByKind[category.KindMethod]
	require.Len(t, rects, 4)
	for i := 1; i < len(rects); i++ {
		assert.LessOrEqual(t, rects[i-1].Start, rects[i].Start)
	}
	for _, perDepth := range p.ByDepth {
		for i := 1; i < len(perDepth); i++ {
			assert.LessOrEqual(t, perDepth[i-1].Start, perDepth[i].Start)
		}
	}
}

func TestProjectAssignsStableIdentity(t *testing.T) {
	tr := mkTrace(
		ev("Method", 0, 10),
		ev("Method", 20, 30),
	)

	p := Project(tr)

	seen := map[int32]bool{}
	for _, rects := range p.ByDepth {
		for _, r := range rects {
			assert.False(t, seen[r.ID], "duplicate rect id %d", r.ID)
			seen[r.ID] = true
			assert.NotNil(t, r.Event)
		}
	}
	assert.Len(t, seen, 2)
}

func TestProjectEmptyTrace(t *testing.T) {
	p := Project(&trace.Trace{})
	assert.Equal(t, 0, p.Total)
	assert.Empty(t, p.ByDepth)
}

func TestRectSpanFloor(t *testing.T) {
	r := &Rect{Start: 5, End: 5}
	assert.Equal(t, int64(1), r.Span())
	r = &Rect{Start: 5, End: 25}
	assert.Equal(t, int64(20), r.Span())
}
