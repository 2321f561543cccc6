package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gilchrisn/hypercut/pkg/cnf"
	"github.com/gilchrisn/hypercut/pkg/config"
	"github.com/gilchrisn/hypercut/pkg/hypergraph"
	"github.com/gilchrisn/hypercut/pkg/metrics"
	"github.com/gilchrisn/hypercut/pkg/partitioner"
)

type splitOptions struct {
	formula   string
	partition string
	prefix    string
}

func newSplitCmd(cfg *config.Config) *cobra.Command {
	o := splitOptions{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a CNF formula along a clause partition",
		Long: `Reads a DIMACS formula and a partition file assigning each clause to a
block, writes one DIMACS file per non-empty block and prints the
decomposition metrics as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFormula(o.formula)
			if err != nil {
				return err
			}
			part, err := readPartition(o.partition)
			if err != nil {
				return err
			}

			fragments, err := cnf.Split(part, f)
			if err != nil {
				return err
			}
			cut := cnf.CutVariables(fragments)

			logger := cfg.CreateLogger()
			logger.Info().
				Int("clauses", len(f.Clauses)).
				Int("fragments", len(fragments)).
				Int("cut", len(cut)).
				Msg("Split formula")

			if o.prefix != "" {
				for i, frag := range fragments {
					path := fmt.Sprintf("%s.%d.cnf", o.prefix, i)
					if err := writeOutput(path, frag); err != nil {
						return err
					}
					logger.Debug().Str("path", path).Int("clauses", len(frag.Clauses)).Msg("Wrote fragment")
				}
			}

			primal, err := cnf.ToHypergraph(f, cnf.HeuristicNone)
			if err != nil {
				return err
			}
			h := hypergraph.Dual(primal)
			report := metrics.Compute(f, fragments, cut, metrics.Components(h), partitioner.BlockWeights(h, part, part.Blocks()))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&o.formula, "cnf", "", "DIMACS formula")
	cmd.Flags().StringVarP(&o.partition, "partition", "p", "", "clause partition file")
	cmd.Flags().StringVar(&o.prefix, "output-cnfs", "", "write fragment i to <prefix>.<i>.cnf")
	cmd.MarkFlagRequired("cnf")
	cmd.MarkFlagRequired("partition")

	return cmd
}

func readFormula(path string) (*cnf.Formula, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open formula: %w", err)
	}
	defer file.Close()

	f, err := cnf.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}

func readPartition(path string) (partitioner.Partition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition: %w", err)
	}
	defer file.Close()

	p, err := partitioner.ReadPartition(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}
