package oracle

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/gilchrisn/hypercut/pkg/cnf"
)

// Verification holds the counts compared by Verify.
type Verification struct {
	Original  *big.Int
	Fragments []*big.Int
	Product   *big.Int
}

// Equal reports whether the fragment counts multiply to the original count.
func (v *Verification) Equal() bool {
	return v.Original.Cmp(v.Product) == 0
}

// Verify conditions the original and every fragment on assignment and checks
// that the fragment model counts multiply to the count of the original.
// Fragments are counted concurrently by at most workers goroutines.
// A mismatch returns the verification together with ErrCountMismatch.
func Verify(ctx context.Context, counter Counter, original *cnf.Formula, fragments []*cnf.Formula, assignment []int, workers int) (*Verification, error) {
	conditioned, err := cnf.Condition(original, assignment)
	if err != nil {
		return nil, err
	}
	parts := make([]*cnf.Formula, len(fragments))
	for i, frag := range fragments {
		if parts[i], err = cnf.Condition(frag, assignment); err != nil {
			return nil, fmt.Errorf("fragment %d: %w", i, err)
		}
	}

	v := &Verification{Fragments: make([]*big.Int, len(parts))}
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	g.Go(func() error {
		n, err := counter.Count(gctx, conditioned)
		if err != nil {
			return fmt.Errorf("count original: %w", err)
		}
		v.Original = n
		return nil
	})
	for i, part := range parts {
		g.Go(func() error {
			n, err := counter.Count(gctx, part)
			if err != nil {
				return fmt.Errorf("count fragment %d: %w", i, err)
			}
			v.Fragments[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v.Product = big.NewInt(1)
	for _, n := range v.Fragments {
		v.Product.Mul(v.Product, n)
	}
	if !v.Equal() {
		return v, fmt.Errorf("original %s, product %s: %w", v.Original, v.Product, ErrCountMismatch)
	}
	return v, nil
}
