// Package cli defines the blrun command tree and resolves the layered
// configuration (flags, environment, blrun.yaml, loader config XML) into a
// RunConfig before handing off to the orchestrator.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blrun",
	Short: "Batch driver for the record loader",
	Long: `blrun drives the external batch loader over a directory of data files:
one loader invocation per file, ordered for referential safety, with a
per-file log for every invocation.

Data files are tab (or comma/pipe) separated .txt files; each pairs with an
XML load template by name. Load mode processes files in case-insensitive
name order, delete mode in exact reverse order using synthesized delete
templates, and retry mode replays the .failed files a previous run left
behind.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Loader executable or runtime unreachable
  12 - User denied delete approval
  13 - One or more files failed or were skipped
  14 - No data files found for the requested mode`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for blrun")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
