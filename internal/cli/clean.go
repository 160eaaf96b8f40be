package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plmtools/blrun/internal/config"
	"github.com/plmtools/blrun/internal/services"
	"github.com/plmtools/blrun/pkg/blrun"
)

var cleanCmd = &cobra.Command{
	Use:   "clean-failed",
	Short: "Remove the failed-row files of a previous run",
	Long: `Clean-failed deletes the .failed files the loader left behind, typically
after a successful retry. Only files with the .failed extension are touched;
data files, templates and logs stay put.

Examples:
  # Clean the data directory
  blrun clean-failed

  # Clean a dedicated retry directory
  blrun clean-failed --retry-dir ./logs/failed`,
	Args: cobra.NoArgs,
	RunE: runCleanFailed,
}

var cleanFlags struct {
	dataDir  string
	retryDir string
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanFlags.dataDir, "data-dir", "d", "",
		"Directory of data files (default: "+blrun.DefaultDataDir+")")
	cleanCmd.Flags().StringVar(&cleanFlags.retryDir, "retry-dir", "",
		"Directory holding .failed files (default: the data directory)")
}

// runCleanFailed needs no loader config or runtime; it only touches files.
func runCleanFailed(cmd *cobra.Command, _ []string) error {
	logger := newLogger(getVerboseFlag(cmd))

	projectCfg, err := config.LoadProject(".")
	if err != nil {
		if err != config.ErrProjectConfigNotFound {
			return fmt.Errorf("cannot read %s: %v: %w", config.ProjectConfigFileName, err, blrun.ErrInvalidConfig)
		}
		projectCfg = &config.ProjectConfig{}
	}

	cfg := &blrun.RunConfig{
		DataDir:  firstNonEmpty(cleanFlags.dataDir, projectCfg.Dirs.Data, blrun.DefaultDataDir),
		RetryDir: firstNonEmpty(cleanFlags.retryDir, projectCfg.Dirs.Retry),
	}

	_, err = services.CleanFailed(cfg, logger)
	return err
}
