package flame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamegrid/flamegrid/internal/category"
)

func TestIndexRectByID(t *testing.T) {
	tr := mkTrace(
		ev("Method", 0, 50),
		ev("DML", 60, 90),
	)
	ix := buildIndex(t, tr)

	r := ix.RectByID(0)
	require.NotNil(t, r)
	assert.Equal(t, int32(0), r.ID)

	assert.Nil(t, ix.RectByID(999))
}

func TestIndexResetInvalidatesLookups(t *testing.T) {
	ix := buildIndex(t, mkTrace(ev("Method", 0, 50)))
	require.NotNil(t, ix.RectByID(0))

	// Rebuilding over a different projection must not serve stale rects.
	bigger := Project(mkTrace(
		ev("Method", 0, 50),
		ev("DML", 60, 90),
	))
	ix.Reset(bigger)

	r := ix.RectByID(1)
	require.NotNil(t, r)
	assert.Equal(t, category.KindDML, r.Kind)
	assert.Same(t, bigger.ByDepth[0][1], r)
}

func TestIndexEmptyDepths(t *testing.T) {
	ix := buildIndex(t, mkTrace(ev("Method", 0, 50)))
	assert.Nil(t, ix.root(5))
	assert.Nil(t, ix.root(-1))
	assert.NotNil(t, ix.root(0))
}
