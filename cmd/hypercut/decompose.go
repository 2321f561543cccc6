package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gilchrisn/hypercut/pkg/config"
	"github.com/gilchrisn/hypercut/pkg/decompose"
)

func newDecomposeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompose <formula.cnf>",
		Short: "Partition, split and verify a CNF formula",
		Long: `Builds the hypergraph of a DIMACS formula, partitions it, splits the
formula into fragments, fixes the cut variables to a satisfying
assignment and checks that the fragment model counts multiply to the
model count of the conditioned formula.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cfg, cmd.Flags(), map[string]string{
				"strategy":        "partition.strategy",
				"blocks":          "partition.blocks",
				"imbalance":       "partition.imbalance",
				"seed":            "partition.random_seed",
				"heuristic":       "cnf.heuristic",
				"dual":            "cnf.dual",
				"counter":         "oracle.counter",
				"verify":          "oracle.verify",
				"workers":         "oracle.workers",
				"track":           "analysis.track_assignments",
				"output-dir":      "output.dir",
				"prefix":          "output.prefix",
				"write-fragments": "output.write_fragments",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := decompose.NewPipeline(cfg)
			result, err := pipeline.RunFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run:        %s\n", result.RunID)
			fmt.Fprintf(out, "fragments:  %d\n", len(result.Fragments))
			fmt.Fprintf(out, "cut:        %v\n", result.Cut)
			fmt.Fprintf(out, "components: %d\n", result.Report.Components)
			if !result.Satisfiable {
				fmt.Fprintln(out, "result:     unsatisfiable")
				return nil
			}
			fmt.Fprintf(out, "assignment: %v\n", result.Assignment)
			if v := result.Verification; v != nil {
				fmt.Fprintf(out, "models:     %s = %s\n", v.Original, v.Product)
			}
			return nil
		},
	}

	cmd.Flags().StringP("strategy", "s", "dfs", "partitioning strategy (bfs, dfs, random)")
	cmd.Flags().IntP("blocks", "k", 2, "number of blocks")
	cmd.Flags().Float64P("imbalance", "e", 0.1, "imbalance tolerance for random partitioning")
	cmd.Flags().Int64("seed", 0, "random seed")
	cmd.Flags().String("heuristic", "none", "variable weighting (none, maxo, moms, mams)")
	cmd.Flags().Bool("dual", true, "partition the clauses through the dual hypergraph")
	cmd.Flags().String("counter", "gophersat", "model counter (gophersat, enumerate)")
	cmd.Flags().Bool("verify", true, "compare model counts after splitting")
	cmd.Flags().Int("workers", 0, "maximum concurrent model counts, one per CPU when unset")
	cmd.Flags().Bool("track", false, "log every assignment to the analysis output file")
	cmd.Flags().String("output-dir", "output", "directory for fragments and summary")
	cmd.Flags().String("prefix", "fragment", "file name prefix for outputs")
	cmd.Flags().Bool("write-fragments", false, "write partition, fragments and summary")

	return cmd
}
