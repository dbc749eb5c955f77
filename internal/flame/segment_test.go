package flame

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamegrid/flamegrid/internal/category"
)

// rectRow builds n adjacent same-depth rects of the given width.
func rectRow(n int, width int64, kind category.Kind) []*Rect {
	rects := make([]*Rect, n)
	for i := range rects {
		start := int64(i) * width
		rects[i] = &Rect{
			ID:       int32(i),
			Start:    start,
			End:      start + width,
			Duration: width,
			SelfTime: width,
			Kind:     kind,
		}
	}
	return rects
}

func TestBuildDepthTreeEmpty(t *testing.T) {
	tbl := category.DefaultTable()
	assert.Nil(t, buildDepthTree(nil, &tbl))
}

func TestBuildDepthTreeSingleLeaf(t *testing.T) {
	tbl := category.DefaultTable()
	root := buildDepthTree(rectRow(1, 10, category.KindMethod), &tbl)

	require.NotNil(t, root)
	assert.True(t, root.leaf())
	assert.Equal(t, int64(10), root.span)
	assert.Equal(t, 1, root.count)
	assert.Equal(t, category.KindMethod, root.dominant)
}

func TestBuildDepthTreeBranchingFactor(t *testing.T) {
	tbl := category.DefaultTable()
	root := buildDepthTree(rectRow(branchFactor*branchFactor, 10, category.KindMethod), &tbl)

	require.NotNil(t, root)
	require.False(t, root.leaf())
	assert.Len(t, root.children, branchFactor)
	for _, c := range root.children {
		assert.Len(t, c.children, branchFactor)
	}
}

func TestTreeInvariants(t *testing.T) {
	tbl := category.DefaultTable()
	for _, n := range []int{1, 2, branchFactor, branchFactor + 1, 37, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			root := buildDepthTree(rectRow(n, 7, category.KindMethod), &tbl)
			checkNodeInvariants(t, root, &tbl)
			assert.Equal(t, n, root.count)
		})
	}
}

// checkNodeInvariants verifies span flooring, child-span union, stat sums,
// and span monotonicity from leaves to root.
func checkNodeInvariants(t *testing.T, n *segNode, tbl *category.Table) {
	t.Helper()

	assert.GreaterOrEqual(t, n.span, int64(1))
	assert.Equal(t, tbl.Dominant(&n.stats), n.dominant)

	if n.leaf() {
		require.NotNil(t, n.rect)
		assert.Empty(t, n.children)
		return
	}
	require.NotEmpty(t, n.children)

	var sum category.StatSet
	count := 0
	for _, c := range n.children {
		assert.GreaterOrEqual(t, c.start, n.start)
		assert.LessOrEqual(t, c.end, n.end)
		assert.LessOrEqual(t, c.span, n.span, "node span must not shrink toward the root")
		sum.Merge(&c.stats)
		count += c.count
		checkNodeInvariants(t, c, tbl)
	}
	assert.Equal(t, n.children[0].start, n.start)
	assert.Equal(t, sum, n.stats)
	assert.Equal(t, count, n.count)
}

func TestBuildDepthTreeSpanFloorOnInstantEvents(t *testing.T) {
	tbl := category.DefaultTable()
	rects := []*Rect{
		{Start: 5, End: 5, Duration: 1, Kind: category.KindMethod},
	}
	root := buildDepthTree(rects, &tbl)
	assert.Equal(t, int64(1), root.span)
}

func TestBranchDominantUsesPriority(t *testing.T) {
	tbl := category.DefaultTable()
	rects := rectRow(5, 10, category.KindMethod)
	rects = append(rects, &Rect{
		ID: 99, Start: 50, End: 51, Duration: 1, Kind: category.KindDML,
	})
	root := buildDepthTree(rects, &tbl)

	// One tiny DML leaf outranks five big Method leaves.
	assert.Equal(t, category.KindDML, root.dominant)
}
