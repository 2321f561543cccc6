package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/crillab/gophersat/solver"
	"github.com/go-air/gini/z"
	"github.com/samber/lo"

	"github.com/gilchrisn/hypercut/pkg/cnf"
)

// Counter counts the models of a formula over all of its declared variables.
type Counter interface {
	Name() string
	Count(ctx context.Context, f *cnf.Formula) (*big.Int, error)
}

// NewCounter returns the counter called name: "gophersat" or "enumerate".
// maxModels bounds the enumeration counter and is ignored by gophersat.
func NewCounter(name string, maxModels int) (Counter, error) {
	switch strings.ToLower(name) {
	case "gophersat", "":
		return GophersatCounter{}, nil
	case "enumerate", "enumeration", "gini":
		return EnumerationCounter{MaxModels: maxModels}, nil
	default:
		return nil, fmt.Errorf("unknown model counter %q (want gophersat or enumerate)", name)
	}
}

func pow2(n int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(n))
}

// trivialCount handles formulas without any variable occurrence, which
// both solvers treat badly. ok is false when f needs a real count.
func trivialCount(f *cnf.Formula) (count *big.Int, ok bool) {
	empty := false
	for _, c := range f.Clauses {
		if len(c) > 0 {
			return nil, false
		}
		empty = true
	}
	if empty {
		return big.NewInt(0), true
	}
	return pow2(f.NumVars), true
}

// GophersatCounter counts models with the CDCL model counter of gophersat.
type GophersatCounter struct{}

func (GophersatCounter) Name() string { return "gophersat" }

func (GophersatCounter) Count(ctx context.Context, f *cnf.Formula) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n, ok := trivialCount(f); ok {
		return n, nil
	}

	clauses := simplify(f)
	if len(clauses) == 0 {
		return pow2(f.NumVars), nil
	}
	pb := solver.ParseSlice(clauses)
	if pb.Status == solver.Unsat {
		return big.NewInt(0), nil
	}
	s := solver.New(pb)
	n := big.NewInt(int64(s.CountModels()))

	// gophersat only knows variables up to the largest one occurring
	return n.Mul(n, pow2(f.NumVars-pb.NbVars)), nil
}

// simplify drops repeated literals and tautological clauses, neither of
// which changes the models of f.
func simplify(f *cnf.Formula) [][]int {
	clauses := make([][]int, 0, len(f.Clauses))
	for _, c := range f.Clauses {
		lits := lo.Uniq([]int(c))
		tautology := lo.ContainsBy(lits, func(lit int) bool { return lo.Contains(lits, -lit) })
		if !tautology {
			clauses = append(clauses, lits)
		}
	}
	return clauses
}

// EnumerationCounter counts models by repeatedly solving with gini and
// blocking every model found. It is exact but only usable for formulas
// with few models.
type EnumerationCounter struct {
	// MaxModels stops enumeration with ErrModelLimit; 0 means no limit.
	MaxModels int
}

func (EnumerationCounter) Name() string { return "enumerate" }

func (e EnumerationCounter) Count(ctx context.Context, f *cnf.Formula) (*big.Int, error) {
	if n, ok := trivialCount(f); ok {
		return n, nil
	}

	vars := f.Variables()
	g := load(f)
	models := 0
	block := make([]z.Lit, len(vars))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := g.Solve()
		if res == giniUnsat {
			break
		}
		if res != giniSat {
			return nil, fmt.Errorf("solver gave up after %d models", models)
		}
		models++
		if e.MaxModels > 0 && models > e.MaxModels {
			return nil, fmt.Errorf("more than %d models: %w", e.MaxModels, ErrModelLimit)
		}

		for i, v := range vars {
			lit := z.Dimacs2Lit(v)
			if g.Value(lit) {
				lit = lit.Not()
			}
			block[i] = lit
		}
		for _, lit := range block {
			g.Add(lit)
		}
		g.Add(z.LitNull)
	}

	n := big.NewInt(int64(models))
	return n.Mul(n, pow2(f.NumVars-len(vars))), nil
}
