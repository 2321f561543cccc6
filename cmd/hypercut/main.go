// Command hypercut partitions hypergraphs and decomposes CNF formulas
// along hypergraph partitions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gilchrisn/hypercut/pkg/config"
)

type options struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	cfg := config.NewConfig()
	o := options{}

	cmd := &cobra.Command{
		Use:          "hypercut",
		Short:        "Hypergraph partitioning and CNF decomposition",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.configFile != "" {
				if err := cfg.LoadFromFile(o.configFile); err != nil {
					return fmt.Errorf("failed to load config %s: %w", o.configFile, err)
				}
			}
			return bindFlags(cfg, cmd.Flags(), map[string]string{"log-level": "logging.level"})
		},
	}

	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "path to a YAML, JSON or TOML configuration file")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPartitionCmd(cfg),
		newSplitCmd(cfg),
		newDecomposeCmd(cfg),
		newConvertCmd(cfg),
	)
	return cmd
}

// bindFlags binds flags to configuration keys. Binding happens when a
// command runs so that subcommands sharing a key do not shadow each other.
func bindFlags(cfg *config.Config, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := cfg.Viper().BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
