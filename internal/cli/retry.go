package cli

import (
	"github.com/spf13/cobra"

	"github.com/plmtools/blrun/pkg/blrun"
)

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Replay the failed-row files of a previous run",
	Long: `Retry replays the .failed files the loader produced for rows that did not
load. Each <stem>.failed file reuses the template of its original data file;
logs go to the retry subdirectory as <stem>.retry.log.

By default the data directory is scanned for .failed files; --retry-dir
points retry at the directory the loader writes them to when that differs.

After a clean retry, remove the consumed files with 'blrun clean-failed'.

Examples:
  # Replay failures left in the data directory
  blrun retry

  # Failures collected elsewhere
  blrun retry --retry-dir ./logs/failed`,
	Args: cobra.NoArgs,
	RunE: runRetry,
}

var retryFlags batchFlagValues

func init() {
	rootCmd.AddCommand(retryCmd)
	addBatchFlags(retryCmd, &retryFlags)
	retryCmd.Flags().StringVar(&retryFlags.retryDir, "retry-dir", "",
		"Directory holding .failed files (default: the data directory)")
}

func runRetry(cmd *cobra.Command, _ []string) error {
	return runBatch(cmd, blrun.ModeRetry, &retryFlags)
}
