package cnf

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/gilchrisn/hypercut/pkg/hypergraph"
	"github.com/gilchrisn/hypercut/pkg/partitioner"
)

// Heuristic chooses how variables are weighted in the hypergraph.
type Heuristic string

const (
	// HeuristicNone weighs every variable 1.
	HeuristicNone Heuristic = "none"
	// HeuristicMAXO counts the occurrences of a variable over all clauses.
	HeuristicMAXO Heuristic = "maxo"
	// HeuristicMOMS counts the occurrences in clauses of minimum size.
	HeuristicMOMS Heuristic = "moms"
	// HeuristicMAMS is MAXO plus MOMS.
	HeuristicMAMS Heuristic = "mams"
)

func ParseHeuristic(s string) (Heuristic, error) {
	switch h := Heuristic(strings.ToLower(strings.TrimSpace(s))); h {
	case HeuristicNone, HeuristicMAXO, HeuristicMOMS, HeuristicMAMS:
		return h, nil
	case "":
		return HeuristicNone, nil
	default:
		return "", fmt.Errorf("unknown variable heuristic %q (want none, maxo, moms or mams)", s)
	}
}

// Weights returns the heuristic weight of every variable, indexed by
// variable-1. Weights are at least 1.
// f must be valid, see Validate.
func (f *Formula) Weights(h Heuristic) []int {
	weights := make([]int, f.NumVars)
	minSize := 0
	if len(f.Clauses) > 0 {
		minSize = lo.Min(lo.Map(f.Clauses, func(c Clause, _ int) int { return len(c) }))
	}

	for _, c := range f.Clauses {
		for _, v := range lo.Uniq(c.Variables()) {
			occ := c.Occurrence(v)
			switch h {
			case HeuristicMAXO:
				weights[v-1] += occ
			case HeuristicMOMS:
				if len(c) == minSize {
					weights[v-1] += occ
				}
			case HeuristicMAMS:
				weights[v-1] += occ
				if len(c) == minSize {
					weights[v-1] += occ
				}
			}
		}
	}
	for i := range weights {
		weights[i] = max(weights[i], 1)
	}
	return weights
}

// ToHypergraph turns clause i into net i and variable v into vertex v-1.
// Every literal is a pin, so a variable repeated in a clause is pinned
// repeatedly. Declared variables that occur in no clause become isolated
// vertices, which keeps the vertex ids dense.
func ToHypergraph(f *Formula, h Heuristic) (*hypergraph.Hypergraph, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("build hypergraph: %w", err)
	}
	g := hypergraph.New(len(f.Clauses))
	for i, c := range f.Clauses {
		for _, lit := range c {
			// i < len(f.Clauses) == g.NumNets()
			_ = g.AddPin(i, abs(lit)-1)
		}
	}
	for i, w := range f.Weights(h) {
		g.SetWeight(i, w)
	}
	return g, nil
}

// Split routes clause i to the fragment of block p[i]. Fragments are
// returned in ascending block order; blocks without clauses produce none.
// Every fragment keeps the variable count of f.
func Split(p partitioner.Partition, f *Formula) ([]*Formula, error) {
	if len(p) != len(f.Clauses) {
		return nil, fmt.Errorf("partition has %d entries for %d clauses", len(p), len(f.Clauses))
	}

	byBlock := make(map[int][]Clause)
	for i, block := range p {
		byBlock[block] = append(byBlock[block], f.Clauses[i])
	}
	blocks := lo.Keys(byBlock)
	slices.Sort(blocks)

	fragments := make([]*Formula, 0, len(blocks))
	for _, b := range blocks {
		fragments = append(fragments, &Formula{NumVars: f.NumVars, Clauses: byBlock[b]})
	}
	return fragments, nil
}

// CutVariables returns the variables that occur in at least two fragments,
// ascending.
func CutVariables(fragments []*Formula) []int {
	owners := make(map[int]int)
	for _, frag := range fragments {
		for _, v := range frag.Variables() {
			owners[v]++
		}
	}
	cut := lo.Keys(lo.PickBy(owners, func(_ int, n int) bool { return n > 1 }))
	slices.Sort(cut)
	return cut
}

// Condition fixes the literals of assignment by adding them as unit clauses.
// Every declared variable that then still occurs nowhere is fixed positive,
// so all conditioned fragments range over the same variables.
func Condition(f *Formula, assignment []int) (*Formula, error) {
	for _, lit := range assignment {
		if err := f.checkLiteral(lit); err != nil {
			return nil, fmt.Errorf("condition on assignment: %w", err)
		}
	}

	out := f.Clone()
	for _, lit := range assignment {
		out.Clauses = append(out.Clauses, Clause{lit})
	}

	present := make([]bool, f.NumVars+1)
	for _, v := range out.Variables() {
		present[v] = true
	}
	for v := 1; v <= f.NumVars; v++ {
		if !present[v] {
			out.Clauses = append(out.Clauses, Clause{v})
		}
	}
	return out, nil
}

// ProjectPartition turns a partition of the variables of f (vertex v-1 for
// variable v) into a partition of its clauses. Each clause goes to the block
// holding most of its literals, the lowest such block on ties. Clauses
// without literals go to block 0.
func ProjectPartition(p partitioner.Partition, f *Formula) (partitioner.Partition, error) {
	if len(p) != f.NumVars {
		return nil, fmt.Errorf("partition has %d entries for %d variables", len(p), f.NumVars)
	}

	out := make(partitioner.Partition, len(f.Clauses))
	votes := make(map[int]int)
	for i, c := range f.Clauses {
		clear(votes)
		best := 0
		for _, lit := range c {
			b := p[abs(lit)-1]
			votes[b]++
			if votes[b] > votes[best] || (votes[b] == votes[best] && b < best) {
				best = b
			}
		}
		out[i] = best
	}
	return out, nil
}
