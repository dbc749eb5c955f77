package category

// Stat aggregates one category's presence inside a node or bucket.
type Stat struct {
	Count int
	Total int64
}

// StatSet holds per-category aggregate statistics. The zero value is an
// empty set.
type StatSet [NumKinds]Stat

// Add records count events of kind k with the given total duration.
func (s *StatSet) Add(k Kind, count int, total int64) {
	s[k].Count += count
	s[k].Total += total
}

// Merge folds other into s entry-wise.
func (s *StatSet) Merge(other *StatSet) {
	for i := range s {
		s[i].Count += other[i].Count
		s[i].Total += other[i].Total
	}
}

// Reset clears the set for reuse.
func (s *StatSet) Reset() {
	*s = StatSet{}
}

// Events returns the total event count across all categories.
func (s *StatSet) Events() int {
	n := 0
	for i := range s {
		n += s[i].Count
	}
	return n
}

// Dominant resolves the single category representing the set: lowest
// priority number wins; on a priority tie the larger total duration wins;
// on a further tie the larger count wins. An empty set resolves to
// KindOther.
func (t *Table) Dominant(s *StatSet) Kind {
	best := KindOther
	found := false
	for i := range s {
		k := Kind(i)
		if s[i].Count == 0 {
			continue
		}
		if !found {
			best = k
			found = true
			continue
		}
		if t.outranks(s, k, best) {
			best = k
		}
	}
	return best
}

// Challenge re-resolves a dominant category incrementally: given the current
// dominant and a challenger, both evaluated against the (already merged)
// stats in s, it returns whichever wins under the same rule Dominant uses.
func (t *Table) Challenge(s *StatSet, current, challenger Kind) Kind {
	if current == challenger {
		return current
	}
	if s[current].Count == 0 {
		return challenger
	}
	if s[challenger].Count == 0 {
		return current
	}
	if t.outranks(s, challenger, current) {
		return challenger
	}
	return current
}

// outranks reports whether a beats b under priority, then total duration,
// then count. Both must have nonzero counts in s.
func (t *Table) outranks(s *StatSet, a, b Kind) bool {
	pa, pb := t[a].Priority, t[b].Priority
	if pa != pb {
		return pa < pb
	}
	if s[a].Total != s[b].Total {
		return s[a].Total > s[b].Total
	}
	return s[a].Count > s[b].Count
}
