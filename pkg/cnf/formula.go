// Package cnf holds formulas in conjunctive normal form and the operations
// that decompose them along a hypergraph partition.
package cnf

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrInvalidLiteral is returned for a zero literal or one whose variable
// exceeds the declared variable count.
var ErrInvalidLiteral = errors.New("invalid literal")

// Clause is a disjunction of signed, non-zero literals.
type Clause []int

// Variables returns the variables of the clause in order of appearance,
// one entry per literal.
func (c Clause) Variables() []int {
	return lo.Map(c, func(lit int, _ int) int { return abs(lit) })
}

// Occurrence is 2 when both polarities of variable occur in the clause,
// 1 when one does and 0 otherwise.
func (c Clause) Occurrence(variable int) int {
	n := 0
	if slices.Contains(c, variable) {
		n++
	}
	if slices.Contains(c, -variable) {
		n++
	}
	return n
}

// Formula is a CNF formula over the variables 1..NumVars.
type Formula struct {
	NumVars int
	Clauses []Clause
}

// New returns a formula and checks every literal against numVars.
func New(numVars int, clauses ...Clause) (*Formula, error) {
	f := &Formula{NumVars: numVars, Clauses: clauses}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks that every literal is non-zero and within the declared variables.
func (f *Formula) Validate() error {
	if f.NumVars < 0 {
		return fmt.Errorf("negative variable count %d", f.NumVars)
	}
	for i, c := range f.Clauses {
		for _, lit := range c {
			if err := f.checkLiteral(lit); err != nil {
				return fmt.Errorf("clause %d: %w", i, err)
			}
		}
	}
	return nil
}

func (f *Formula) checkLiteral(lit int) error {
	if lit == 0 || abs(lit) > f.NumVars {
		return fmt.Errorf("literal %d with %d variables: %w", lit, f.NumVars, ErrInvalidLiteral)
	}
	return nil
}

// Variables returns the variables occurring in the clauses, ascending.
func (f *Formula) Variables() []int {
	seen := make(map[int]struct{})
	for _, c := range f.Clauses {
		for _, lit := range c {
			seen[abs(lit)] = struct{}{}
		}
	}
	vars := lo.Keys(seen)
	slices.Sort(vars)
	return vars
}

// Literals returns the total number of literal occurrences.
func (f *Formula) Literals() int {
	return lo.SumBy(f.Clauses, func(c Clause) int { return len(c) })
}

// Width returns the size of the largest clause, 0 without clauses.
func (f *Formula) Width() int {
	return lo.Max(lo.Map(f.Clauses, func(c Clause, _ int) int { return len(c) }))
}

// Clone returns a deep copy.
func (f *Formula) Clone() *Formula {
	clauses := make([]Clause, len(f.Clauses))
	for i, c := range f.Clauses {
		clauses[i] = slices.Clone(c)
	}
	return &Formula{NumVars: f.NumVars, Clauses: clauses}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
