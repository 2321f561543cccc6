// Package oracle answers satisfiability and model counting questions about
// formulas produced by a decomposition.
package oracle

import (
	"errors"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/gilchrisn/hypercut/pkg/cnf"
)

var (
	// ErrUnsatisfiable is returned when a formula has no model.
	ErrUnsatisfiable = errors.New("formula is unsatisfiable")
	// ErrModelLimit is returned when enumeration exceeds its model budget.
	ErrModelLimit = errors.New("model limit exceeded")
	// ErrCountMismatch is returned when fragment counts do not multiply to the original count.
	ErrCountMismatch = errors.New("model counts of fragments do not match the original")
)

const (
	giniSat   = 1
	giniUnsat = -1
)

// load adds every clause of f to a fresh gini solver.
func load(f *cnf.Formula) *gini.Gini {
	g := gini.NewV(f.NumVars)
	for _, c := range f.Clauses {
		for _, lit := range c {
			g.Add(z.Dimacs2Lit(lit))
		}
		g.Add(z.LitNull)
	}
	return g
}

// FindAssignment solves f and returns one literal per cut variable giving
// its value in the model found. Variables the model leaves open are
// reported positive.
func FindAssignment(f *cnf.Formula, cut []int) ([]int, error) {
	g := load(f)
	switch g.Solve() {
	case giniSat:
	case giniUnsat:
		return nil, ErrUnsatisfiable
	default:
		return nil, fmt.Errorf("solver gave up on %d clauses", len(f.Clauses))
	}

	maxVar := g.MaxVar()
	assignment := make([]int, len(cut))
	for i, v := range cut {
		lit := z.Dimacs2Lit(v)
		if lit.Var() > maxVar || g.Value(lit) {
			assignment[i] = v
		} else {
			assignment[i] = -v
		}
	}
	return assignment, nil
}
