package partitioner

import (
	"bufio"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/hypercut/pkg/hypergraph"
)

// chain builds a path hypergraph 0-1-...-(n-1) of two-pin nets.
func chain(t *testing.T, n int) *hypergraph.Hypergraph {
	t.Helper()
	if n == 1 {
		g := hypergraph.New(0)
		g.SetWeight(0, 1)
		return g
	}
	g := hypergraph.New(max(n-1, 0))
	for i := 0; i+1 < n; i++ {
		require.NoError(t, g.AddPin(i, i))
		require.NoError(t, g.AddPin(i, i+1))
	}
	return g
}

func TestLedger(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		_, err := NewLedger(0, 3, 0)
		assert.ErrorIs(t, err, ErrNoBlocks)
		_, err = NewLedger(2, 3, -0.5)
		assert.ErrorIs(t, err, ErrInfeasibleImbalance)
	})

	t.Run("AssignAndImbalance", func(t *testing.T) {
		l, err := NewLedger(2, 4, 1)
		require.NoError(t, err)
		assert.Equal(t, Partition{0, 0, 0, 0}, l.Partition())

		l.Assign(1, 0, 3)
		l.Assign(0, 1, 1)
		assert.Equal(t, []int{1, 3}, l.Weights())
		assert.Equal(t, 1, l.Block(0))

		// ideal is (1+3)/2 = 2
		assert.InDelta(t, 1.0, l.Imbalance(0, 0), 1e-9)
		assert.InDelta(t, 0.0, l.Imbalance(0, 1), 1e-9)
		assert.InDelta(t, 2.0, l.Imbalance(1, 1), 1e-9)
		assert.True(t, l.IsBalanced(0, 0))
		assert.False(t, l.IsBalanced(1, 1))
	})

	t.Run("ReassignOnlyTouchesNewBlock", func(t *testing.T) {
		l, err := NewLedger(2, 1, 0)
		require.NoError(t, err)
		l.Assign(0, 0, 2)
		l.Assign(1, 0, 2)
		assert.Equal(t, []int{2, 2}, l.Weights())
		assert.Equal(t, Partition{1}, l.Partition())
	})
}

func TestPartitionTraversal(t *testing.T) {
	t.Run("TenIntoThree", func(t *testing.T) {
		g := chain(t, 10)
		for _, order := range []Order{BFS, DFS} {
			p, err := PartitionTraversal(g, 3, order)
			require.NoError(t, err)
			assert.Equal(t, Partition{0, 0, 0, 0, 1, 1, 1, 1, 2, 2}, p, order.String())
			assert.Equal(t, []int{4, 4, 2}, p.Sizes())
		}
	})

	t.Run("FollowsVisitationOrder", func(t *testing.T) {
		// star around 0: DFS visits 0, 3, 2, 1 and BFS 0, 1, 2, 3
		g := hypergraph.New(1)
		for v := range 4 {
			require.NoError(t, g.AddPin(0, v))
		}
		g2 := hypergraph.New(3)
		for i, leaf := range []int{1, 2, 3} {
			require.NoError(t, g2.AddPin(i, 0))
			require.NoError(t, g2.AddPin(i, leaf))
		}

		p, err := PartitionTraversal(g2, 2, DFS)
		require.NoError(t, err)
		assert.Equal(t, Partition{0, 1, 1, 0}, p)

		p, err = PartitionTraversal(g, 2, BFS)
		require.NoError(t, err)
		assert.Equal(t, Partition{0, 0, 1, 1}, p)
	})

	t.Run("MoreBlocksThanVertices", func(t *testing.T) {
		p, err := PartitionTraversal(chain(t, 2), 5, BFS)
		require.NoError(t, err)
		assert.Equal(t, Partition{0, 1}, p)
	})

	t.Run("Empty", func(t *testing.T) {
		p, err := PartitionTraversal(hypergraph.New(0), 2, DFS)
		require.NoError(t, err)
		assert.Empty(t, p)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := PartitionTraversal(chain(t, 3), 0, BFS)
		assert.ErrorIs(t, err, ErrNoBlocks)

		sparse := hypergraph.New(1)
		require.NoError(t, sparse.AddPin(0, 3))
		_, err = PartitionTraversal(sparse, 2, BFS)
		assert.ErrorIs(t, err, hypergraph.ErrInconsistentIndex)
	})
}

func TestPartitionRandom(t *testing.T) {
	g := chain(t, 50)

	t.Run("Deterministic", func(t *testing.T) {
		a, err := PartitionRandom(g, 4, 2, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		b, err := PartitionRandom(g, 4, 2, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, 50)
		for _, block := range a {
			assert.GreaterOrEqual(t, block, 0)
			assert.Less(t, block, 4)
		}
	})

	// With one vertex the shuffle draws nothing, so the first Intn of a
	// fresh source with the same seed is the probed block.
	probe := func(seed int64, blocks int) int {
		return rand.New(rand.NewSource(seed)).Intn(blocks)
	}
	single := chain(t, 1)

	t.Run("BalancedProbeKept", func(t *testing.T) {
		for seed := int64(1); seed <= 20; seed++ {
			p, err := PartitionRandom(single, 3, 1, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			assert.Equal(t, Partition{probe(seed, 3)}, p, "seed %d", seed)
		}
	})

	t.Run("UnbalancedProbeMovesToNextBlock", func(t *testing.T) {
		// Tolerance 0 rejects every probe, and the next block is just as
		// unbalanced, so the vertex must land there without a second check.
		wrapped, shifted := false, false
		for seed := int64(1); seed <= 50; seed++ {
			candidate := probe(seed, 3)
			p, err := PartitionRandom(single, 3, 0, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			assert.Equal(t, Partition{(candidate + 1) % 3}, p, "seed %d", seed)
			if candidate == 2 {
				wrapped = true
			} else {
				shifted = true
			}
		}
		assert.True(t, wrapped, "no seed probed the last block")
		assert.True(t, shifted, "every seed probed the last block")
	})

	t.Run("SingleBlock", func(t *testing.T) {
		p, err := PartitionRandom(g, 1, 0, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, []int{50}, p.Sizes())
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := PartitionRandom(g, 2, 0.1, nil)
		assert.ErrorIs(t, err, ErrNoRandomSource)
		_, err = PartitionRandom(g, 0, 0.1, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrNoBlocks)
		_, err = PartitionRandom(g, 2, -1, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrInfeasibleImbalance)
	})
}

func TestRunAndParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" DFS ")
	require.NoError(t, err)
	assert.Equal(t, StrategyDFS, s)
	_, err = ParseStrategy("kahypar")
	assert.Error(t, err)

	g := chain(t, 4)
	p, err := Run(g, StrategyBFS, 2, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Partition{0, 0, 1, 1}, p)
	assert.Equal(t, []int{2, 2}, BlockWeights(g, p, 2))
}

func TestPartitionCodec(t *testing.T) {
	p := Partition{0, 2, 1, 0}
	assert.Equal(t, "0\n2\n1\n0\n", p.String())

	got, err := ReadPartition(strings.NewReader(p.String()))
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got, err = ReadPartition(strings.NewReader("1\n\n 0 \n"))
	require.NoError(t, err)
	assert.Equal(t, Partition{1, 0}, got)

	_, err = ReadPartition(strings.NewReader("0\nx\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "x", perr.Fragment)

	_, err = ReadPartition(strings.NewReader("-1\n"))
	assert.ErrorAs(t, err, &perr)
}

func TestAssignmentTracker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assignments.jsonl")
	tracker, err := NewAssignmentTracker(path, "bfs")
	require.NoError(t, err)

	_, err = PartitionTraversal(chain(t, 3), 2, BFS, WithTracker(tracker))
	require.NoError(t, err)
	require.NoError(t, tracker.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []AssignmentEvent
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev AssignmentEvent
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		events = append(events, ev)
	}
	require.Len(t, events, 3)
	assert.Equal(t, 1, events[0].Step)
	assert.Equal(t, "bfs", events[2].Strategy)
	assert.Equal(t, 1, events[2].Block)

	var nilTracker *AssignmentTracker
	nilTracker.LogAssignment(0, 0, 1, 1)
	assert.NoError(t, nilTracker.Close())
}
