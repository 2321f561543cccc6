package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/gilchrisn/hypercut/pkg/config"
	"github.com/gilchrisn/hypercut/pkg/formats"
	"github.com/gilchrisn/hypercut/pkg/hypergraph"
	"github.com/gilchrisn/hypercut/pkg/partitioner"
)

type partitionOptions struct {
	input  string
	output string
	format string
}

func newPartitionCmd(cfg *config.Config) *cobra.Command {
	o := partitionOptions{}

	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Partition a hypergraph file into blocks",
		Long: `Reads a hypergraph in hMETIS or PaToH format, partitions its vertices
and writes one block index per line, in vertex order.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cfg, cmd.Flags(), map[string]string{
				"mode":    "partition.strategy",
				"blocks":  "partition.blocks",
				"epsilon": "partition.imbalance",
				"seed":    "partition.random_seed",
				"track":   "analysis.track_assignments",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := partitioner.ParseStrategy(cfg.Strategy())
			if err != nil {
				return err
			}
			if strategy == partitioner.StrategyRandom && !cmd.Flags().Changed("epsilon") && !cfg.Viper().InConfig("partition.imbalance") {
				return errors.New("--epsilon is required for random partitioning")
			}

			g, err := readGraph(o.input, o.format)
			if err != nil {
				return err
			}
			h, err := g.Hypergraph()
			if err != nil {
				return fmt.Errorf("invalid hypergraph %s: %w", o.input, err)
			}

			logger := cfg.CreateLogger()
			logger.Info().
				Str("input", o.input).
				Int("vertices", h.Len()).
				Int("nets", h.NumNets()).
				Str("mode", string(strategy)).
				Int("blocks", cfg.Blocks()).
				Msg("Partitioning hypergraph")

			part, err := partitionGraph(cfg, h, strategy)
			if err != nil {
				return err
			}

			weights := partitioner.BlockWeights(h, part, cfg.Blocks())
			logger.Info().
				Ints("block_weights", weights).
				Ints("block_sizes", part.Sizes()).
				Msg("Partition complete")

			return writeOutput(o.output, part)
		},
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "", "hypergraph file")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "partition file to write")
	cmd.Flags().StringVar(&o.format, "format", "hmetis", "input format (hmetis, patoh)")
	cmd.Flags().StringP("mode", "m", "dfs", "partitioning mode (bfs, dfs, random)")
	cmd.Flags().IntP("blocks", "k", 2, "number of blocks")
	cmd.Flags().Float64P("epsilon", "e", 0.1, "imbalance tolerance, required for random mode")
	cmd.Flags().Int64("seed", 0, "random seed for random mode")
	cmd.Flags().Bool("track", false, "log every assignment to the analysis output file")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func partitionGraph(cfg *config.Config, h *hypergraph.Hypergraph, strategy partitioner.Strategy) (partitioner.Partition, error) {
	var opts []partitioner.Option
	if cfg.EnableAssignmentTracking() {
		tracker, err := partitioner.NewAssignmentTracker(cfg.TrackingOutputFile(), string(strategy))
		if err != nil {
			return nil, err
		}
		defer tracker.Close()
		opts = append(opts, partitioner.WithTracker(tracker))
	}
	rng := rand.New(rand.NewSource(cfg.RandomSeed()))
	return partitioner.Run(h, strategy, cfg.Blocks(), cfg.Imbalance(), rng, opts...)
}

func readGraph(path, format string) (*formats.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hypergraph: %w", err)
	}
	defer file.Close()

	var g *formats.Graph
	switch format {
	case "hmetis", "":
		g, err = formats.ParseHMETIS(file)
	case "patoh":
		g, err = formats.ParsePaToH(file)
	default:
		return nil, fmt.Errorf("unknown hypergraph format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return g, nil
}

func writeOutput(path string, w io.WriterTo) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
