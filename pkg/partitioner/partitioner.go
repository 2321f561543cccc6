package partitioner

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gilchrisn/hypercut/pkg/hypergraph"
)

// Strategy names a partitioning strategy.
type Strategy string

const (
	StrategyBFS    Strategy = "bfs"
	StrategyDFS    Strategy = "dfs"
	StrategyRandom Strategy = "random"
)

// ParseStrategy accepts bfs, dfs or random in any case.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyBFS, StrategyDFS, StrategyRandom:
		return st, nil
	default:
		return "", fmt.Errorf("unknown partitioning strategy %q (want bfs, dfs or random)", s)
	}
}

// Order selects the traversal used by PartitionTraversal.
type Order int

const (
	BFS Order = iota
	DFS
)

func (o Order) String() string {
	if o == DFS {
		return "dfs"
	}
	return "bfs"
}

func (o Order) search(g *hypergraph.Hypergraph) (*hypergraph.Search, error) {
	if o == DFS {
		return hypergraph.DFS(g)
	}
	return hypergraph.BFS(g)
}

type options struct {
	tracker *AssignmentTracker
}

// Option configures a partitioning run.
type Option func(*options)

// WithTracker logs every assignment of the run to t.
func WithTracker(t *AssignmentTracker) Option {
	return func(o *options) { o.tracker = t }
}

func newLedger(g *hypergraph.Hypergraph, blocks int, imbalance float64, opts []Option) (*Ledger, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	ledger, err := NewLedger(blocks, g.Len(), imbalance)
	if err != nil {
		return nil, err
	}
	if !g.Dense() {
		return nil, fmt.Errorf("partition %d vertices: %w", g.Len(), hypergraph.ErrInconsistentIndex)
	}
	ledger.Track(o.tracker)
	return ledger, nil
}

// PartitionTraversal cuts the traversal order of g into blocks consecutive
// chunks of ceil(n/blocks) vertices. Trailing blocks may be smaller or empty.
func PartitionTraversal(g *hypergraph.Hypergraph, blocks int, order Order, opts ...Option) (Partition, error) {
	ledger, err := newLedger(g, blocks, 0, opts)
	if err != nil {
		return nil, err
	}
	search, err := order.search(g)
	if err != nil {
		return nil, err
	}

	chunk := (g.Len() + blocks - 1) / blocks
	i := 0
	for v := range search.All() {
		weight, _ := g.VertexWeight(v)
		ledger.Assign(i/chunk, v, weight)
		i++
	}
	return ledger.Partition(), nil
}

// PartitionRandom visits the vertices in random order and places each one in
// a random block. When that block would leave the tolerance, the vertex goes
// to the next block instead without a further check, so the result is not
// guaranteed to be balanced. Every vertex counts with weight 1.
func PartitionRandom(g *hypergraph.Hypergraph, blocks int, imbalance float64, rng *rand.Rand, opts ...Option) (Partition, error) {
	if rng == nil {
		return nil, ErrNoRandomSource
	}
	ledger, err := newLedger(g, blocks, imbalance, opts)
	if err != nil {
		return nil, err
	}

	vertices := make([]int, g.Len())
	for i := range vertices {
		vertices[i] = i
	}
	rng.Shuffle(len(vertices), func(i, j int) {
		vertices[i], vertices[j] = vertices[j], vertices[i]
	})

	for _, v := range vertices {
		block := rng.Intn(blocks)
		if ledger.IsBalanced(block, 1) {
			ledger.Assign(block, v, 1)
		} else {
			ledger.Assign((block+1)%blocks, v, 1)
		}
	}
	return ledger.Partition(), nil
}

// Run dispatches to the strategy named by s. rng is only used by StrategyRandom.
func Run(g *hypergraph.Hypergraph, s Strategy, blocks int, imbalance float64, rng *rand.Rand, opts ...Option) (Partition, error) {
	switch s {
	case StrategyBFS:
		return PartitionTraversal(g, blocks, BFS, opts...)
	case StrategyDFS:
		return PartitionTraversal(g, blocks, DFS, opts...)
	case StrategyRandom:
		return PartitionRandom(g, blocks, imbalance, rng, opts...)
	default:
		return nil, fmt.Errorf("unknown partitioning strategy %q", s)
	}
}

// BlockWeights sums the vertex weights of g per block of p.
func BlockWeights(g *hypergraph.Hypergraph, p Partition, blocks int) []int {
	weights := make([]int, max(blocks, p.Blocks()))
	for v := range g.Vertices() {
		if v.ID < len(p) {
			weights[p[v.ID]] += v.Weight
		}
	}
	return weights
}
