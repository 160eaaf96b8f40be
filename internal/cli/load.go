package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plmtools/blrun/pkg/blrun"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load every data file through the loader",
	Long: `Load runs one loader invocation per data file in the data directory.

Files are processed in case-insensitive name order, so numeric prefixes
control referential safety: items before the relationships that reference
them (001-User.txt before 200-Part-BOM.txt). Each file pairs with its load
template by name; a file whose template cannot be found is skipped and the
batch continues. Every invocation writes a per-file log under the logs
directory.

Examples:
  # Load ./data with the default config
  blrun load

  # Explicit config and data directory
  blrun load -c prod/CLIBatchLoaderConfig.xml -d prod/data

  # Central templates directory
  blrun load -t ./templates`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

var loadFlags batchFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)
	addBatchFlags(loadCmd, &loadFlags)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	return runBatch(cmd, blrun.ModeLoad, &loadFlags)
}

// runBatch is the shared command body for load and retry. Delete carries its
// own body because of the approval workflow.
func runBatch(cmd *cobra.Command, mode blrun.Mode, flags *batchFlagValues) error {
	verbose := getVerboseFlag(cmd)
	logger := newLogger(verbose)

	cfg, err := buildRunConfig(flags, verbose, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = newOrchestrator(noApprovalNeeded{}, logger).Run(ctx, mode, cfg)
	return err
}
