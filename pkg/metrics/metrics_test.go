package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/hypercut/pkg/cnf"
	"github.com/gilchrisn/hypercut/pkg/hypergraph"
)

func TestMeasure(t *testing.T) {
	f := &cnf.Formula{NumVars: 5, Clauses: []cnf.Clause{{1, 2}, {2, 3, -1}, {3}, {1, 3}}}
	assert.Equal(t, Dimension{Clauses: 4, Variables: 3, Literals: 4, Width: 3, Density: 1}, Measure(f))
	assert.Equal(t, Dimension{}, Measure(&cnf.Formula{NumVars: 2}))
}

func TestCompute(t *testing.T) {
	original := &cnf.Formula{NumVars: 4, Clauses: []cnf.Clause{{1, 2}, {2, 3}, {3, 4}}}
	fragments := []*cnf.Formula{
		{NumVars: 4, Clauses: []cnf.Clause{{1, 2}, {2, 3}}},
		{NumVars: 4, Clauses: []cnf.Clause{{3, 4}}},
	}

	r := Compute(original, fragments, []int{3}, 1, []int{2, 1})
	assert.Equal(t, 1, r.CutSize)
	assert.Equal(t, 3, r.Original.Clauses)
	assert.Equal(t, Dimension{Clauses: 3, Variables: 5, Literals: 5, Width: 2, Density: 0}, r.Split)
	require.Len(t, r.Fragments, 2)
	assert.Equal(t, 3, r.Fragments[0].Variables)
	assert.Equal(t, 2, r.Blocks.Blocks)
	assert.InDelta(t, 1.5, r.Blocks.Mean, 1e-9)
	assert.InDelta(t, 2.0, r.Blocks.Max, 1e-9)
	assert.InDelta(t, 1.0/3.0, r.Blocks.Imbalance, 1e-9)
}

func TestBlocks(t *testing.T) {
	assert.Equal(t, BlockStats{}, Blocks(nil))

	s := Blocks([]int{4, 4, 4})
	assert.InDelta(t, 0.0, s.StdDev, 1e-9)
	assert.InDelta(t, 0.0, s.Imbalance, 1e-9)

	s = Blocks([]int{0, 0})
	assert.InDelta(t, 0.0, s.Imbalance, 1e-9)
}

func TestComponents(t *testing.T) {
	h := hypergraph.New(3)
	for _, pin := range [][2]int{{0, 0}, {0, 1}, {0, 1}, {1, 2}, {1, 3}, {2, 4}} {
		require.NoError(t, h.AddPin(pin[0], pin[1]))
	}
	h.SetWeight(5, 1)
	// {0,1} {2,3} {4} {5}
	assert.Equal(t, 4, Components(h))
	assert.Equal(t, 0, Components(hypergraph.New(2)))
}
