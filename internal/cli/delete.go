package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plmtools/blrun/internal/ui"
	"github.com/plmtools/blrun/pkg/blrun"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete everything a load run created, in reverse order",
	Long: `Delete removes the records the data files loaded, processing the files in
exact reverse load order so relationship rows go before the items they
reference.

For each data file, a delete template is synthesized from its load template:
the item element is switched to a delete action, its children are dropped,
and the identifier column detected in the data file binds each row to the
record it created. Synthesized templates are written to the delete-templates
directory and reused verbatim on later runs.

This operation permanently removes records from the server. It asks for
typed confirmation of the data directory name; --force replaces the prompt
with a countdown. Non-interactive sessions (piped stdin, CI) require --force.

Examples:
  # Interactive delete with confirmation prompt
  blrun delete

  # Unattended delete in a pipeline
  blrun delete --force

  # Keep synthesized templates in a custom location
  blrun delete --delete-templates-dir ./generated`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

var deleteFlags batchFlagValues

func init() {
	rootCmd.AddCommand(deleteCmd)
	addBatchFlags(deleteCmd, &deleteFlags)
	deleteCmd.Flags().StringVar(&deleteFlags.deleteTemplatesDir, "delete-templates-dir", "",
		"Directory for synthesized delete templates (default: "+blrun.DefaultDeleteTemplatesDir+")")
	deleteCmd.Flags().BoolVar(&deleteFlags.force, "force", false,
		"Skip the interactive confirmation prompt\n"+
			"Shows a countdown instead; required for non-interactive sessions")
}

func runDelete(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := newLogger(verbose)

	cfg, err := buildRunConfig(&deleteFlags, verbose, logger)
	if err != nil {
		return err
	}

	approver, err := selectApprover(cfg.Force)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = newOrchestrator(approver, logger).Run(ctx, blrun.ModeDelete, cfg)
	return err
}

// selectApprover picks the approval flow for delete mode. A non-interactive
// session has no terminal to confirm on, so it must opt in with --force.
func selectApprover(force bool) (blrun.Approver, error) {
	if force {
		return ui.NewForcedApprover(), nil
	}
	if !ui.IsInteractive() {
		return nil, fmt.Errorf("non-interactive session cannot confirm a delete, use --force: %w",
			blrun.ErrApprovalDenied)
	}
	return ui.NewInteractiveApprover(), nil
}
