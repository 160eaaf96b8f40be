// Package services wires planning, template resolution, synthesis and loader
// execution into complete batch workflows.
package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/plmtools/blrun/pkg/blrun"
)

// Orchestrator drives one batch run end to end: plan the work items, resolve
// their templates (synthesizing delete templates when needed), invoke the
// loader once per item, and aggregate the results.
//
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
// Create separate instances for concurrent runs.
type Orchestrator struct {
	planner     blrun.Planner
	resolver    blrun.TemplateResolver
	synthesizer blrun.DeleteSynthesizer
	runner      blrun.LoaderRunner
	approver    blrun.Approver
	logger      blrun.Logger
}

// NewOrchestrator creates a new Orchestrator with all dependencies injected.
// Panics on nil dependencies: wiring mistakes should fail loudly at startup,
// not as nil dereferences mid-batch.
func NewOrchestrator(
	planner blrun.Planner,
	resolver blrun.TemplateResolver,
	synthesizer blrun.DeleteSynthesizer,
	runner blrun.LoaderRunner,
	approver blrun.Approver,
	logger blrun.Logger,
) *Orchestrator {
	if planner == nil {
		panic("planner cannot be nil")
	}
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if synthesizer == nil {
		panic("synthesizer cannot be nil")
	}
	if runner == nil {
		panic("runner cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Orchestrator{
		planner:     planner,
		resolver:    resolver,
		synthesizer: synthesizer,
		runner:      runner,
		approver:    approver,
		logger:      logger,
	}
}

// Run executes one batch in the given mode.
//
// The plan is decided up front; per-item problems (missing template, missing
// id column, synthesis failure) skip that item and the batch continues. Only
// two things abort mid-run: a loader process that cannot be launched at all,
// and context cancellation. Delete mode requests approval after planning and
// before any template is synthesized or any process starts.
//
// The returned Summary always reflects the items processed so far, even when
// an error is also returned. ErrFilesFailed reports that at least one item
// failed or was skipped.
func (o *Orchestrator) Run(ctx context.Context, mode blrun.Mode, cfg *blrun.RunConfig) (blrun.Summary, error) {
	summary := blrun.Summary{
		RunID: uuid.New(),
		Mode:  mode,
	}

	if err := cfg.Validate(); err != nil {
		return summary, err
	}

	items, err := o.planner.Plan(mode, cfg)
	if err != nil {
		return summary, err
	}

	o.printHeader(summary.RunID, mode, cfg, len(items))

	if mode == blrun.ModeDelete {
		subject := filepath.Base(filepath.Clean(cfg.DataDir))
		approved, err := o.approver.RequestApproval(ctx, subject)
		if err != nil {
			return summary, fmt.Errorf("approval failed: %w", err)
		}
		if !approved {
			return summary, fmt.Errorf("delete of '%s' not confirmed: %w", subject, blrun.ErrApprovalDenied)
		}
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		result, err := o.runItem(ctx, item, cfg)
		if err != nil {
			// The item never produced an outcome; recording it would count a
			// zero-value result as a success.
			return summary, err
		}
		summary.Results = append(summary.Results, result)
	}

	o.printSummary(&summary)

	if summary.Failed() > 0 || summary.Skipped() > 0 {
		return summary, fmt.Errorf("%d of %d files did not load: %w",
			summary.Failed()+summary.Skipped(), len(summary.Results), blrun.ErrFilesFailed)
	}
	return summary, nil
}

// runItem prepares and executes one work item. Skippable preparation errors
// come back as an OutcomeSkipped result with a nil error; only launch
// failures and cancellation surface as errors.
func (o *Orchestrator) runItem(ctx context.Context, item blrun.WorkItem, cfg *blrun.RunConfig) (blrun.RunResult, error) {
	templatePath, err := o.resolver.Resolve(item.Stem, item.DataPath, cfg)
	if err != nil {
		if errors.Is(err, blrun.ErrTemplateNotFound) {
			return o.skip(item, err), nil
		}
		return blrun.RunResult{}, err
	}

	if item.Mode == blrun.ModeDelete {
		deletePath, synthErr := o.synthesizer.Synthesize(templatePath, item.DataPath, cfg)
		if synthErr != nil {
			if errors.Is(synthErr, blrun.ErrMissingIDColumn) || errors.Is(synthErr, blrun.ErrTemplateSynthesis) {
				return o.skip(item, synthErr), nil
			}
			return blrun.RunResult{}, synthErr
		}
		templatePath = deletePath
	}

	item.TemplatePath = templatePath
	o.logger.Info("→ %s (%s)", item.Stem, item.Mode)

	result, err := o.runner.Run(ctx, item, cfg)
	if err != nil {
		return blrun.RunResult{}, err
	}

	switch result.Outcome {
	case blrun.OutcomeSuccess:
		o.logger.Info("  ✓ %s completed", item.Stem)
	case blrun.OutcomeNonZeroExit:
		o.logger.Error("  ✗ %s exited with code %d (see %s)", item.Stem, result.ExitCode, result.LogPath)
	}
	return result, nil
}

func (o *Orchestrator) skip(item blrun.WorkItem, cause error) blrun.RunResult {
	o.logger.Error("  - %s skipped: %v", item.Stem, cause)
	return blrun.RunResult{
		Stem:       item.Stem,
		Outcome:    blrun.OutcomeSkipped,
		SkipReason: cause.Error(),
	}
}

func (o *Orchestrator) printHeader(runID uuid.UUID, mode blrun.Mode, cfg *blrun.RunConfig, itemCount int) {
	o.logger.Info("Batch run %s", runID)
	o.logger.Info("  mode:      %s", mode)
	o.logger.Info("  runtime:   %s", cfg.LoaderDir)
	o.logger.Info("  config:    %s", cfg.ConfigPath)
	o.logger.Info("  data:      %s", cfg.DataDir)
	if cfg.TemplatesDir != "" {
		o.logger.Info("  templates: %s", cfg.TemplatesDir)
	}
	o.logger.Info("  logs:      %s", cfg.LogsDir)
	o.logger.Info("  files:     %d", itemCount)
}

func (o *Orchestrator) printSummary(s *blrun.Summary) {
	o.logger.Info("Run %s finished: %d succeeded, %d failed, %d skipped",
		s.RunID, s.Succeeded(), s.Failed(), s.Skipped())
	for _, r := range s.Results {
		if r.Outcome == blrun.OutcomeNonZeroExit {
			o.logger.Info("  failed: %s (exit %d) log: %s", r.Stem, r.ExitCode, r.LogPath)
		}
	}
}
