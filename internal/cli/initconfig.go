package cli

import (
	"github.com/spf13/cobra"

	"github.com/plmtools/blrun/internal/config"
	"github.com/plmtools/blrun/internal/logging"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [target]",
	Short: "Derive a CLI config from the loader runtime",
	Long: `Init-config reads the BatchLoaderConfig.xml shipped inside the loader
runtime folder and writes a clean CLI config next to your data: connection
settings and parser settings are carried over, everything else is dropped,
and a <loader_dir> element is added so later runs find the runtime without
--loader-dir.

Arguments:
  target    Where to write the config (default: ` + "CLIBatchLoaderConfig.xml" + `
            in the working directory). A directory gets the default name
            appended.

Examples:
  # Write CLIBatchLoaderConfig.xml in the working directory
  blrun init-config --loader-dir /opt/loader

  # Write into a project folder
  blrun init-config --loader-dir /opt/loader ./prod`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitConfig,
}

var initConfigLoaderDir string

func init() {
	rootCmd.AddCommand(initConfigCmd)
	initConfigCmd.Flags().StringVar(&initConfigLoaderDir, "loader-dir", "",
		"Loader runtime folder containing BatchLoaderConfig.xml (required)")
	_ = initConfigCmd.MarkFlagRequired("loader-dir")
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	written, err := config.InitFromRuntime(initConfigLoaderDir, target)
	if err != nil {
		return err
	}
	logger.Info("Wrote %s", written)
	logger.Info("Review the connection settings, then run 'blrun load'.")
	return nil
}
