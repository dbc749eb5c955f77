package flame

import (
	"github.com/flamegrid/flamegrid/internal/category"
)

// branchFactor is the fan-out of the per-depth segment trees. Mid-size
// keeps tree height low while still letting span-based cutoffs prune whole
// subtrees.
const branchFactor = 10

// segNode is one node of a per-depth segment tree. Leaves reference exactly
// one Rect; branches hold ordered children whose spans they cover.
// Invariants: span == max(1, end-start); a branch's stats are the entry-wise
// sum of its children's stats; span never decreases from leaf to root.
type segNode struct {
	start int64
	end   int64
	span  int64

	count    int
	stats    category.StatSet
	dominant category.Kind

	rect     *Rect
	children []*segNode
}

func (n *segNode) leaf() bool { return n.rect != nil }

// buildDepthTree builds one balanced tree bottom-up over time-sorted rects:
// consecutive nodes are grouped branchFactor at a time until a single root
// remains. Returns nil for an empty level.
func buildDepthTree(rects []*Rect, tbl *category.Table) *segNode {
	if len(rects) == 0 {
		return nil
	}

	level := make([]*segNode, 0, len(rects))
	for _, r := range rects {
		n := &segNode{
			start: r.Start,
			end:   r.End,
			span:  r.Span(),
			count: 1,
			rect:  r,
		}
		n.stats.Add(r.Kind, 1, r.Duration)
		n.dominant = r.Kind
		level = append(level, n)
	}

	for len(level) > 1 {
		next := make([]*segNode, 0, (len(level)+branchFactor-1)/branchFactor)
		for lo := 0; lo < len(level); lo += branchFactor {
			hi := lo + branchFactor
			if hi > len(level) {
				hi = len(level)
			}
			next = append(next, newBranch(level[lo:hi], tbl))
		}
		level = next
	}
	return level[0]
}

// newBranch aggregates consecutive children into one branch node. The
// children slice is copied; build levels reuse their backing arrays.
func newBranch(children []*segNode, tbl *category.Table) *segNode {
	b := &segNode{
		start:    children[0].start,
		end:      children[0].end,
		children: append([]*segNode(nil), children...),
	}
	for _, c := range children {
		// Same-depth events rarely overlap, but a clock-skewed capture can
		// put a late end on an early child; take the true union.
		if c.end > b.end {
			b.end = c.end
		}
		b.count += c.count
		b.stats.Merge(&c.stats)
	}
	b.span = b.end - b.start
	if b.span < 1 {
		b.span = 1
	}
	b.dominant = tbl.Dominant(&b.stats)
	return b
}
