package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnownLabels(t *testing.T) {
	cases := []struct {
		label string
		want  Kind
	}{
		{"DML", KindDML},
		{"dml", KindDML},
		{"SOQL", KindSOQL},
		{"Code Unit", KindCodeUnit},
		{"codeunit", KindCodeUnit},
		{"Flow", KindFlow},
		{"Workflow", KindWorkflow},
		{"Method", KindMethod},
		{"System Method", KindSystem},
		{"  method  ", KindMethod},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Parse(tc.label), "label %q", tc.label)
	}
}

func TestParseUnknownLabelFallsBack(t *testing.T) {
	assert.Equal(t, KindOther, Parse("Bogus"))
	assert.Equal(t, KindOther, Parse(""))
}

func TestDominantPriorityWins(t *testing.T) {
	tbl := DefaultTable()

	var s StatSet
	s.Add(KindMethod, 100, 5000)
	s.Add(KindDML, 1, 10)

	// DML outranks Method regardless of relative durations and counts.
	assert.Equal(t, KindDML, tbl.Dominant(&s))
}

func TestDominantDurationBreaksPriorityTie(t *testing.T) {
	tbl := DefaultTable()
	tbl[KindMethod].Priority = tbl[KindFlow].Priority

	var s StatSet
	s.Add(KindMethod, 3, 500)
	s.Add(KindFlow, 10, 200)

	assert.Equal(t, KindMethod, tbl.Dominant(&s))
}

func TestDominantCountBreaksDurationTie(t *testing.T) {
	tbl := DefaultTable()
	tbl[KindMethod].Priority = tbl[KindFlow].Priority

	var s StatSet
	s.Add(KindMethod, 3, 500)
	s.Add(KindFlow, 10, 500)

	assert.Equal(t, KindFlow, tbl.Dominant(&s))
}

func TestDominantEmptySet(t *testing.T) {
	tbl := DefaultTable()
	var s StatSet
	assert.Equal(t, KindOther, tbl.Dominant(&s))
}

func TestChallengeMatchesFullResolution(t *testing.T) {
	tbl := DefaultTable()

	// Merge stats incrementally and re-resolve via Challenge at each step;
	// the running dominant must match a from-scratch resolution.
	steps := []struct {
		kind  Kind
		count int
		total int64
	}{
		{KindMethod, 5, 900},
		{KindSystem, 2, 50},
		{KindSOQL, 1, 10},
		{KindMethod, 4, 100},
		{KindDML, 1, 1},
	}

	var merged StatSet
	current := KindOther
	for i, step := range steps {
		var incoming StatSet
		incoming.Add(step.kind, step.count, step.total)

		merged.Merge(&incoming)
		current = tbl.Challenge(&merged, current, step.kind)

		require.Equal(t, tbl.Dominant(&merged), current, "step %d", i)
	}
	assert.Equal(t, KindDML, current)
}

func TestStatSetMergeAndEvents(t *testing.T) {
	var a, b StatSet
	a.Add(KindMethod, 2, 100)
	b.Add(KindMethod, 3, 50)
	b.Add(KindDML, 1, 10)

	a.Merge(&b)

	assert.Equal(t, 5, a[KindMethod].Count)
	assert.Equal(t, int64(150), a[KindMethod].Total)
	assert.Equal(t, 1, a[KindDML].Count)
	assert.Equal(t, 6, a.Events())

	a.Reset()
	assert.Equal(t, 0, a.Events())
}
