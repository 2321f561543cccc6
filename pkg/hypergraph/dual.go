package hypergraph

import (
	"slices"
)

// Dual swaps the roles of vertices and nets. Dual vertex i stands for net i
// of g. Each vertex of g, in ascending id order, becomes one dual net holding
// its incident nets sorted and without duplicates.
//
// Net weights of g become dual vertex weights. Vertex weights of g become
// dual net weights unless they are all 1.
func Dual(g *Hypergraph) *Hypergraph {
	d := New(g.Len())
	for i := range g.NumNets() {
		d.SetWeight(i, g.NetWeight(i))
	}

	weighted := false
	weights := make([]int, 0, g.Len())
	net := 0
	for v := range g.Vertices() {
		pins := slices.Clone(v.Nets)
		slices.Sort(pins)
		for _, p := range slices.Compact(pins) {
			// p < g.NumNets() == d's vertex count, and net < d.NumNets()
			_ = d.AddPin(net, p)
		}
		weights = append(weights, v.Weight)
		if v.Weight != 1 {
			weighted = true
		}
		net++
	}
	if weighted {
		_ = d.SetNetWeights(weights)
	}
	return d
}
