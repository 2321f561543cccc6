package decompose

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/hypercut/pkg/cnf"
	"github.com/gilchrisn/hypercut/pkg/config"
	"github.com/gilchrisn/hypercut/pkg/partitioner"
)

func newTestPipeline(t *testing.T, settings map[string]any) *Pipeline {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Set("oracle.counter", "enumerate")
	cfg.Set("partition.random_seed", int64(1))
	cfg.Set("analysis.output_file", filepath.Join(t.TempDir(), "assignments.jsonl"))
	for k, v := range settings {
		cfg.Set(k, v)
	}
	p := NewPipeline(cfg)
	p.Logger = zerolog.Nop()
	return p
}

func chainFormula() *cnf.Formula {
	return &cnf.Formula{NumVars: 4, Clauses: []cnf.Clause{{1, 2}, {2, 3}, {3, 4}}}
}

func TestRunChain(t *testing.T) {
	for name, settings := range map[string]map[string]any{
		"DualDFS":   {"partition.strategy": "dfs"},
		"DualBFS":   {"partition.strategy": "bfs"},
		"PrimalBFS": {"partition.strategy": "bfs", "cnf.dual": false},
	} {
		t.Run(name, func(t *testing.T) {
			p := newTestPipeline(t, settings)
			result, err := p.Run(context.Background(), chainFormula())
			require.NoError(t, err)

			assert.NotEmpty(t, result.RunID)
			assert.Equal(t, partitioner.Partition{0, 0, 1}, result.Partition)
			assert.Equal(t, []int{3}, result.Cut)
			require.Len(t, result.Fragments, 2)
			assert.Equal(t, []cnf.Clause{{3, 4}}, result.Fragments[1].Clauses)

			assert.True(t, result.Satisfiable)
			require.NotNil(t, result.Verification)
			assert.True(t, result.Verification.Equal())
			assert.Equal(t, 1, result.Report.CutSize)
			assert.Equal(t, 3, result.Report.Original.Clauses)
		})
	}
}

func TestRunRandomFormulas(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := range 10 {
		f := &cnf.Formula{NumVars: 8}
		for range 10 {
			c := cnf.Clause{1 + rng.Intn(8), -(1 + rng.Intn(8)), 1 + rng.Intn(8)}
			f.Clauses = append(f.Clauses, c)
		}

		for _, strategy := range []string{"bfs", "dfs", "random"} {
			p := newTestPipeline(t, map[string]any{
				"partition.strategy":  strategy,
				"partition.blocks":    3,
				"partition.imbalance": 1.0,
				"cnf.heuristic":       "mams",
			})
			result, err := p.Run(context.Background(), f)
			require.NoError(t, err, "trial %d %s", trial, strategy)
			if result.Satisfiable {
				assert.True(t, result.Verification.Equal())
			}
			assert.Len(t, result.Partition, len(f.Clauses))
		}
	}
}

func TestRunUnsatisfiable(t *testing.T) {
	p := newTestPipeline(t, nil)
	f := &cnf.Formula{NumVars: 2, Clauses: []cnf.Clause{{1}, {-1}, {2}}}
	result, err := p.Run(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, result.Satisfiable)
	assert.Nil(t, result.Verification)
	assert.Nil(t, result.Assignment)
}

func TestRunErrors(t *testing.T) {
	_, err := newTestPipeline(t, map[string]any{"partition.strategy": "kahypar"}).Run(context.Background(), chainFormula())
	assert.Error(t, err)

	_, err = newTestPipeline(t, map[string]any{"partition.blocks": 0}).Run(context.Background(), chainFormula())
	assert.ErrorIs(t, err, partitioner.ErrNoBlocks)

	_, err = newTestPipeline(t, map[string]any{"cnf.heuristic": "jw"}).Run(context.Background(), chainFormula())
	assert.Error(t, err)

	_, err = newTestPipeline(t, map[string]any{"oracle.counter": "d4"}).Run(context.Background(), chainFormula())
	assert.Error(t, err)

	invalid := &cnf.Formula{NumVars: 1, Clauses: []cnf.Clause{{1}, {2}}}
	_, err = newTestPipeline(t, nil).Run(context.Background(), invalid)
	assert.ErrorIs(t, err, cnf.ErrInvalidLiteral)
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	tracking := filepath.Join(dir, "moves.jsonl")
	p := newTestPipeline(t, map[string]any{
		"output.write_fragments":     true,
		"output.dir":                 dir,
		"output.prefix":              "chain",
		"analysis.track_assignments": true,
		"analysis.output_file":       tracking,
	})
	clock := time.Unix(0, 0)
	p.now = func() time.Time {
		clock = clock.Add(5 * time.Millisecond)
		return clock
	}

	formulaPath := filepath.Join(dir, "chain.cnf")
	require.NoError(t, os.WriteFile(formulaPath, []byte(chainFormula().String()), 0o644))

	result, err := p.RunFile(context.Background(), formulaPath)
	require.NoError(t, err)

	part, err := os.ReadFile(filepath.Join(dir, "chain.part"))
	require.NoError(t, err)
	assert.Equal(t, "0\n0\n1\n", string(part))

	frag, err := os.ReadFile(filepath.Join(dir, "chain.1.cnf"))
	require.NoError(t, err)
	assert.Equal(t, "p cnf 4 1\n3 4 0\n", string(frag))

	raw, err := os.ReadFile(filepath.Join(dir, "chain_summary.json"))
	require.NoError(t, err)
	var s summary
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Equal(t, result.RunID, s.RunID)
	assert.Equal(t, []int{3}, s.Cut)
	assert.Len(t, s.FragmentModels, 2)
	assert.Positive(t, result.TotalRuntimeMS)
	assert.Equal(t, result.TotalRuntimeMS, s.TotalRuntimeMS)

	info, err := os.Stat(tracking)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = p.RunFile(context.Background(), filepath.Join(dir, "missing.cnf"))
	assert.Error(t, err)
}
