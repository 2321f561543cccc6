package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gilchrisn/hypercut/pkg/config"
	"github.com/gilchrisn/hypercut/pkg/formats"
)

type convertOptions struct {
	input  string
	output string
	from   string
	to     string
	dual   bool
}

func newConvertCmd(cfg *config.Config) *cobra.Command {
	o := convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a hypergraph between hMETIS and PaToH",
		Long: `Reads a hypergraph, optionally replaces it by its dual and writes it in
the requested format. Empty nets are dropped before writing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(o.input, o.from)
			if err != nil {
				return err
			}
			if o.dual {
				if g, err = g.Dual(); err != nil {
					return fmt.Errorf("failed to build dual of %s: %w", o.input, err)
				}
			}

			nets := len(g.Nets)
			g.Trim()

			to := o.to
			if to == "" {
				to = o.from
			}
			var write func(io.Writer, *formats.Graph) error
			switch to {
			case "hmetis", "":
				write = formats.WriteHMETIS
			case "patoh":
				write = formats.WritePaToH
			default:
				return fmt.Errorf("unknown hypergraph format %q", to)
			}

			logger := cfg.CreateLogger()
			logger.Info().
				Str("input", o.input).
				Str("to", to).
				Bool("dual", o.dual).
				Int("nets", len(g.Nets)).
				Int("dropped", nets-len(g.Nets)).
				Int("pins", g.PinCount()).
				Msg("Converting hypergraph")

			return writeOutput(o.output, graphWriter{g: g, write: write})
		},
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "", "hypergraph file")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "hypergraph file to write")
	cmd.Flags().StringVar(&o.from, "format", "hmetis", "input format (hmetis, patoh)")
	cmd.Flags().StringVar(&o.to, "to", "", "output format (hmetis, patoh), the input format when empty")
	cmd.Flags().BoolVar(&o.dual, "dual", false, "write the dual hypergraph")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

// graphWriter adapts a format writer to io.WriterTo.
type graphWriter struct {
	g     *formats.Graph
	write func(io.Writer, *formats.Graph) error
}

func (gw graphWriter) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := gw.write(cw, gw.g)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
