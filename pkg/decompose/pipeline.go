package decompose

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gilchrisn/hypercut/pkg/cnf"
	"github.com/gilchrisn/hypercut/pkg/config"
	"github.com/gilchrisn/hypercut/pkg/hypergraph"
	"github.com/gilchrisn/hypercut/pkg/metrics"
	"github.com/gilchrisn/hypercut/pkg/oracle"
	"github.com/gilchrisn/hypercut/pkg/partitioner"
)

// Pipeline partitions a formula, splits it along the partition and checks
// that the fragments still count the same models as the original.
type Pipeline struct {
	Config *config.Config
	Logger zerolog.Logger
	Writer OutputWriter

	now func() time.Time
}

// Result contains the complete pipeline output
type Result struct {
	RunID string

	Formula    *cnf.Formula
	Hypergraph *hypergraph.Hypergraph
	// Partition assigns every clause of Formula to a block.
	Partition partitioner.Partition
	Fragments []*cnf.Formula
	Cut       []int
	// Assignment is nil when the formula is unsatisfiable.
	Assignment   []int
	Satisfiable  bool
	Verification *oracle.Verification
	Report       metrics.Report

	PartitionTimeMS int64
	SolveTimeMS     int64
	TotalRuntimeMS  int64
}

// NewPipeline creates a pipeline that logs with the configured logger.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		Config: cfg,
		Logger: cfg.CreateLogger(),
		Writer: NewFileWriter(),
		now:    time.Now,
	}
}

func (p *Pipeline) since(start time.Time) int64 {
	return p.now().Sub(start).Milliseconds()
}

// RunFile parses a DIMACS file and runs the pipeline on it.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open formula: %w", err)
	}
	defer file.Close()

	f, err := cnf.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p.Run(ctx, f)
}

// Run executes the complete decomposition of f.
func (p *Pipeline) Run(ctx context.Context, f *cnf.Formula) (*Result, error) {
	startTime := p.now()
	cfg := p.Config

	heuristic, err := cnf.ParseHeuristic(cfg.Heuristic())
	if err != nil {
		return nil, err
	}
	strategy, err := partitioner.ParseStrategy(cfg.Strategy())
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Formula: f}
	logger := p.Logger.With().Str("run", result.RunID).Logger()

	logger.Info().
		Int("variables", f.NumVars).
		Int("clauses", len(f.Clauses)).
		Int("literals", f.Literals()).
		Str("strategy", string(strategy)).
		Int("blocks", cfg.Blocks()).
		Str("heuristic", string(heuristic)).
		Bool("dual", cfg.Dual()).
		Msg("Starting decomposition")

	// Step 1: build the hypergraph in the perspective the partition is taken in
	h, err := cnf.ToHypergraph(f, heuristic)
	if err != nil {
		return nil, err
	}
	if cfg.Dual() {
		h = hypergraph.Dual(h)
	}
	result.Hypergraph = h
	logger.Debug().Int("vertices", h.Len()).Int("nets", h.NumNets()).Int("weight", h.Weight()).Msg("Built hypergraph")

	// Step 2: partition
	partitionStart := p.now()
	var opts []partitioner.Option
	if cfg.EnableAssignmentTracking() {
		tracker, err := partitioner.NewAssignmentTracker(cfg.TrackingOutputFile(), string(strategy))
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := tracker.Close(); err != nil {
				logger.Warn().Err(err).Msg("Assignment log incomplete")
			}
		}()
		opts = append(opts, partitioner.WithTracker(tracker))
	}
	rng := rand.New(rand.NewSource(cfg.RandomSeed()))

	part, err := partitioner.Run(h, strategy, cfg.Blocks(), cfg.Imbalance(), rng, opts...)
	if err != nil {
		return nil, fmt.Errorf("partitioning failed: %w", err)
	}
	blockWeights := partitioner.BlockWeights(h, part, cfg.Blocks())
	if !cfg.Dual() {
		if part, err = cnf.ProjectPartition(part, f); err != nil {
			return nil, err
		}
	}
	result.Partition = part
	result.PartitionTimeMS = p.since(partitionStart)

	// Step 3: split and cut
	result.Fragments, err = cnf.Split(part, f)
	if err != nil {
		return nil, fmt.Errorf("split failed: %w", err)
	}
	result.Cut = cnf.CutVariables(result.Fragments)
	logger.Info().
		Int("fragments", len(result.Fragments)).
		Int("cut", len(result.Cut)).
		Ints("block_weights", blockWeights).
		Int64("ms", result.PartitionTimeMS).
		Msg("Split formula")

	// Step 4: fix the cut and compare model counts
	solveStart := p.now()
	result.Assignment, err = oracle.FindAssignment(f, result.Cut)
	switch {
	case errors.Is(err, oracle.ErrUnsatisfiable):
		logger.Warn().Msg("Formula is unsatisfiable, skipping verification")
	case err != nil:
		return nil, fmt.Errorf("cut assignment failed: %w", err)
	default:
		result.Satisfiable = true
	}

	if result.Satisfiable && cfg.Verify() {
		counter, err := oracle.NewCounter(cfg.Counter(), cfg.MaxModels())
		if err != nil {
			return nil, err
		}
		result.Verification, err = oracle.Verify(ctx, counter, f, result.Fragments, result.Assignment, cfg.Workers())
		if err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		logger.Info().
			Str("counter", counter.Name()).
			Str("models", result.Verification.Original.String()).
			Msg("Fragment model counts match")
	}
	result.SolveTimeMS = p.since(solveStart)

	result.Report = metrics.Compute(f, result.Fragments, result.Cut, metrics.Components(h), blockWeights)

	result.TotalRuntimeMS = p.since(startTime)

	// Step 5: outputs
	if cfg.WriteFragments() {
		if err := p.Writer.WriteAll(result, cfg.OutputDir(), cfg.OutputPrefix()); err != nil {
			return nil, fmt.Errorf("output generation failed: %w", err)
		}
		logger.Info().Str("dir", cfg.OutputDir()).Msg("Wrote fragments")
	}

	logger.Info().
		Int("cut", result.Report.CutSize).
		Int("components", result.Report.Components).
		Int64("total_ms", result.TotalRuntimeMS).
		Msg("Decomposition complete")

	return result, nil
}
