// Package metrics describes how well a decomposition split a formula.
package metrics

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/hypercut/pkg/cnf"
	"github.com/gilchrisn/hypercut/pkg/hypergraph"
)

// Dimension summarises the size of one formula.
type Dimension struct {
	Clauses   int `json:"clauses"`
	Variables int `json:"variables"`
	Literals  int `json:"literals"`
	Width     int `json:"width"`
	// Density is clauses per occurring variable, rounded down.
	Density int `json:"density"`
}

// Measure computes the dimension of f. Variables and Literals count the
// distinct variables and signed literals occurring in f.
func Measure(f *cnf.Formula) Dimension {
	vars := len(f.Variables())
	literals := make(map[int]struct{})
	for _, c := range f.Clauses {
		for _, lit := range c {
			literals[lit] = struct{}{}
		}
	}
	d := Dimension{
		Clauses:   len(f.Clauses),
		Variables: vars,
		Literals:  len(literals),
		Width:     f.Width(),
	}
	if vars > 0 {
		d.Density = d.Clauses / vars
	}
	return d
}

// BlockStats summarises the weight distribution over blocks.
type BlockStats struct {
	Blocks int     `json:"blocks"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
	// Imbalance is Max divided by Mean minus one, 0 for empty partitions.
	Imbalance float64 `json:"imbalance"`
}

func Blocks(weights []int) BlockStats {
	if len(weights) == 0 {
		return BlockStats{}
	}
	w := lo.Map(weights, func(x int, _ int) float64 { return float64(x) })
	s := BlockStats{
		Blocks: len(w),
		Mean:   stat.Mean(w, nil),
		Max:    floats.Max(w),
	}
	if len(w) > 1 {
		s.StdDev = stat.StdDev(w, nil)
	}
	if s.Mean > 0 {
		s.Imbalance = s.Max/s.Mean - 1
	}
	return s
}

// Report is the full picture of one decomposition.
type Report struct {
	Original  Dimension   `json:"original"`
	Fragments []Dimension `json:"fragments"`
	// Split sums the fragment dimensions, Width is the largest fragment width.
	Split      Dimension  `json:"split"`
	CutSize    int        `json:"cut_size"`
	Components int        `json:"components"`
	Blocks     BlockStats `json:"blocks"`
}

// Compute builds a report. components is the number of connected
// components of the partitioned hypergraph, blockWeights its block weights.
func Compute(original *cnf.Formula, fragments []*cnf.Formula, cut []int, components int, blockWeights []int) Report {
	r := Report{
		Original:   Measure(original),
		Fragments:  make([]Dimension, len(fragments)),
		CutSize:    len(cut),
		Components: components,
		Blocks:     Blocks(blockWeights),
	}
	for i, frag := range fragments {
		d := Measure(frag)
		r.Fragments[i] = d
		r.Split.Clauses += d.Clauses
		r.Split.Variables += d.Variables
		r.Split.Literals += d.Literals
		r.Split.Width = max(r.Split.Width, d.Width)
	}
	if r.Split.Variables > 0 {
		r.Split.Density = r.Split.Clauses / r.Split.Variables
	}
	return r
}

// Components counts the connected components of h, where two vertices are
// connected when they share a net.
func Components(h *hypergraph.Hypergraph) int {
	g := simple.NewUndirectedGraph()
	for v := range h.Vertices() {
		g.AddNode(simple.Node(v.ID))
	}
	for i := range h.NumNets() {
		net := h.Net(i)
		for j := 1; j < len(net); j++ {
			if net[j] != net[j-1] {
				g.SetEdge(g.NewEdge(simple.Node(net[j-1]), simple.Node(net[j])))
			}
		}
	}
	return len(topo.ConnectedComponents(g))
}
