package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/plmtools/blrun/internal/aml"
	"github.com/plmtools/blrun/internal/config"
	"github.com/plmtools/blrun/internal/logging"
	"github.com/plmtools/blrun/internal/plan"
	"github.com/plmtools/blrun/internal/runner"
	"github.com/plmtools/blrun/internal/services"
	"github.com/plmtools/blrun/internal/templates"
	"github.com/plmtools/blrun/internal/ui"
	"github.com/plmtools/blrun/pkg/blrun"
)

// batchFlagValues holds the flag values shared by the batch commands
// (load, delete, retry, clean-failed).
type batchFlagValues struct {
	configPath         string
	loaderDir          string
	dataDir            string
	templatesDir       string
	logsDir            string
	retryDir           string
	deleteTemplatesDir string
	promptPassword     bool
	force              bool
}

// addBatchFlags registers the flags shared by the batch commands.
// Precedence for every directory: flag > blrun.yaml > built-in default.
func addBatchFlags(cmd *cobra.Command, flags *batchFlagValues) {
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "",
		"CLI config XML handed to the loader\n"+
			"(default: "+blrun.DefaultConfigName+" in the working directory)")
	cmd.Flags().StringVar(&flags.loaderDir, "loader-dir", "",
		"Loader runtime folder containing "+blrun.LoaderExeName+"\n"+
			"Precedence: --loader-dir > $BLRUN_LOADER_DIR > <loader_dir> in the config")
	cmd.Flags().StringVarP(&flags.dataDir, "data-dir", "d", "",
		"Directory of data files (default: "+blrun.DefaultDataDir+")")
	cmd.Flags().StringVarP(&flags.templatesDir, "templates-dir", "t", "",
		"Central templates directory\n"+
			"(default: templates live next to their data files)")
	cmd.Flags().StringVarP(&flags.logsDir, "logs-dir", "l", "",
		"Root directory for per-file logs (default: "+blrun.DefaultLogsDir+")")
	cmd.Flags().BoolVar(&flags.promptPassword, "prompt-password", false,
		"Prompt for the loader password on the terminal instead of reading it\n"+
			"from the config file or $BLRUN_PASSWORD")
}

// buildRunConfig resolves the layered configuration into a RunConfig.
//
// Resolution order per setting: flag > environment > blrun.yaml > loader
// config XML > built-in default. A .env file in the working directory is
// loaded first so BLRUN_* variables can live there.
func buildRunConfig(flags *batchFlagValues, verbose bool, logger blrun.Logger) (*blrun.RunConfig, error) {
	// Best effort; a missing .env is the normal case.
	if err := godotenv.Load(); err == nil {
		logger.Verbose("loaded environment from .env")
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = blrun.DefaultConfigName
	}
	loaderCfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s (run 'blrun init-config' to create one): %v: %w",
			configPath, err, blrun.ErrInvalidConfig)
	}

	projectCfg, err := config.LoadProject(".")
	if err != nil {
		if err != config.ErrProjectConfigNotFound {
			return nil, fmt.Errorf("cannot read %s: %v: %w", config.ProjectConfigFileName, err, blrun.ErrInvalidConfig)
		}
		projectCfg = &config.ProjectConfig{}
	} else {
		logger.Verbose("loaded project config %s", config.ProjectConfigFileName)
	}

	loaderDir := firstNonEmpty(flags.loaderDir, os.Getenv("BLRUN_LOADER_DIR"), loaderCfg.LoaderDir)
	if loaderDir == "" {
		return nil, fmt.Errorf("loader runtime folder not set: use --loader-dir, $BLRUN_LOADER_DIR, or <loader_dir> in %s: %w",
			configPath, blrun.ErrInvalidConfig)
	}

	configPath, err = applyCredentialOverrides(configPath, loaderCfg, flags.promptPassword, logger)
	if err != nil {
		return nil, err
	}

	cfg := &blrun.RunConfig{
		ConfigPath:          configPath,
		LoaderDir:           loaderDir,
		DataDir:             firstNonEmpty(flags.dataDir, projectCfg.Dirs.Data, blrun.DefaultDataDir),
		TemplatesDir:        firstNonEmpty(flags.templatesDir, projectCfg.Dirs.Templates),
		LogsDir:             firstNonEmpty(flags.logsDir, projectCfg.Dirs.Logs, blrun.DefaultLogsDir),
		RetryDir:            firstNonEmpty(flags.retryDir, projectCfg.Dirs.Retry),
		DeleteTemplatesDir:  firstNonEmpty(flags.deleteTemplatesDir, projectCfg.Dirs.DeleteTemplates, blrun.DefaultDeleteTemplatesDir),
		Delimiter:           loaderCfg.Delimiter,
		FirstRow:            loaderCfg.FirstRow,
		KeyFields:           projectCfg.KeyFields,
		RelationshipMarkers: projectCfg.RelationshipMarkers,
		Force:               flags.force,
		Verbose:             verbose,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	useWine, err := runner.VerifyRuntime(cfg)
	if err != nil {
		return nil, err
	}
	cfg.UseWine = useWine
	return cfg, nil
}

// applyCredentialOverrides materializes an effective config when credentials
// come from the environment or the terminal rather than the config file. The
// loader reads credentials from the XML it is handed, so overrides require a
// derived file; it is written next to the temp files and handed via -c.
func applyCredentialOverrides(configPath string, loaderCfg *config.LoaderConfig, promptPassword bool, logger blrun.Logger) (string, error) {
	user := os.Getenv("BLRUN_USER")
	password := os.Getenv("BLRUN_PASSWORD")
	if promptPassword {
		secret, err := ui.PromptPassword("Loader password: ")
		if err != nil {
			return "", fmt.Errorf("%v: %w", err, blrun.ErrInvalidConfig)
		}
		password = secret
	}
	if user == "" && password == "" {
		return configPath, nil
	}

	root, err := aml.ParseFile(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to parse loader config: %w", err)
	}
	if user != "" {
		setElementText(root, "user", user)
	}
	if password != "" {
		setElementText(root, "password", password)
	}

	tmp, err := os.CreateTemp("", "blrun-config-*.xml")
	if err != nil {
		return "", fmt.Errorf("cannot create effective config: %w", err)
	}
	tmp.Close()
	if err := aml.WriteFile(tmp.Name(), root); err != nil {
		return "", fmt.Errorf("cannot write effective config: %w", err)
	}
	logger.Verbose("credentials overridden, effective config at %s", tmp.Name())
	return tmp.Name(), nil
}

func setElementText(root *aml.Node, name, text string) {
	for _, c := range root.Children {
		if c.Name == name {
			c.Text = text
			return
		}
	}
	root.AppendChild(name).Text = text
}

// newLogger builds the console logger for a command invocation.
func newLogger(verbose bool) blrun.Logger {
	return logging.NewConsoleLogger(verbose)
}

// newOrchestrator wires the batch components for one run.
func newOrchestrator(approver blrun.Approver, logger blrun.Logger) *services.Orchestrator {
	return services.NewOrchestrator(
		plan.NewPlanner(),
		templates.NewResolver(),
		templates.NewSynthesizer(),
		runner.New(logger),
		approver,
		logger,
	)
}

// noApprovalNeeded satisfies the Approver interface for modes that never ask.
type noApprovalNeeded struct{}

func (noApprovalNeeded) RequestApproval(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
