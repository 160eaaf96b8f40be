package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plmtools/blrun/pkg/blrun"
)

func validConfig() *blrun.RunConfig {
	return &blrun.RunConfig{
		ConfigPath: "CLIBatchLoaderConfig.xml",
		LoaderDir:  "runtime",
		DataDir:    "data",
		LogsDir:    "logs",
		FirstRow:   2,
	}
}

func plannedItems(stems ...string) []blrun.WorkItem {
	items := make([]blrun.WorkItem, len(stems))
	for i, s := range stems {
		items[i] = blrun.WorkItem{Stem: s, DataPath: "data/" + s + ".txt"}
	}
	return items
}

func newTestOrchestrator(p *mockPlanner, r *mockResolver, s *mockSynthesizer, run *mockRunner, a *mockApprover) *Orchestrator {
	if p == nil {
		p = &mockPlanner{}
	}
	if r == nil {
		r = &mockResolver{}
	}
	if s == nil {
		s = &mockSynthesizer{}
	}
	if run == nil {
		run = &mockRunner{}
	}
	if a == nil {
		a = &mockApprover{approved: true}
	}
	return NewOrchestrator(p, r, s, run, a, &mockLogger{})
}

func TestNewOrchestrator_NilDependencyPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil planner")
		}
	}()
	NewOrchestrator(nil, &mockResolver{}, &mockSynthesizer{}, &mockRunner{}, &mockApprover{}, &mockLogger{})
}

func TestRun_LoadAllSucceed(t *testing.T) {
	runner := &mockRunner{}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User", "200-Rel")}, nil, nil, runner, nil)

	summary, err := o.Run(context.Background(), blrun.ModeLoad, validConfig())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, summary.RunID)
	assert.Equal(t, blrun.ModeLoad, summary.Mode)
	assert.Equal(t, 2, summary.Succeeded())
	assert.Zero(t, summary.Failed())
	assert.Zero(t, summary.Skipped())

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "001-User_Template.xml", runner.calls[0].TemplatePath, "resolved template reaches the runner")
}

func TestRun_InvalidConfig(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil, nil, nil)

	_, err := o.Run(context.Background(), blrun.ModeLoad, &blrun.RunConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrInvalidConfig))
}

func TestRun_PlannerErrorPropagates(t *testing.T) {
	o := newTestOrchestrator(&mockPlanner{err: blrun.ErrNoDataFiles}, nil, nil, nil, nil)

	_, err := o.Run(context.Background(), blrun.ModeLoad, validConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrNoDataFiles))
}

func TestRun_MissingTemplateSkipsAndContinues(t *testing.T) {
	resolver := &mockResolver{errsByStem: map[string]error{
		"050-Doc": blrun.ErrTemplateNotFound,
	}}
	runner := &mockRunner{}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User", "050-Doc", "200-Rel")}, resolver, nil, runner, nil)

	summary, err := o.Run(context.Background(), blrun.ModeLoad, validConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrFilesFailed))

	assert.Equal(t, 2, summary.Succeeded())
	assert.Equal(t, 1, summary.Skipped())
	require.Len(t, runner.calls, 2, "skipped item never reaches the loader")

	require.Len(t, summary.Results, 3)
	skipped := summary.Results[1]
	assert.Equal(t, blrun.OutcomeSkipped, skipped.Outcome)
	assert.Equal(t, "050-Doc", skipped.Stem)
	assert.NotEmpty(t, skipped.SkipReason)
}

func TestRun_NonZeroExitContinuesBatch(t *testing.T) {
	runner := &mockRunner{exitCodes: map[string]int{"001-User": 1}}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User", "200-Rel")}, nil, nil, runner, nil)

	summary, err := o.Run(context.Background(), blrun.ModeLoad, validConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrFilesFailed))

	assert.Equal(t, 1, summary.Failed())
	assert.Equal(t, 1, summary.Succeeded())
	require.Len(t, runner.calls, 2, "a failing file never halts the batch")
	assert.Equal(t, 1, summary.Results[0].ExitCode)
}

func TestRun_LaunchFailureAborts(t *testing.T) {
	runner := &mockRunner{launchErr: blrun.ErrLoaderNotFound}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User", "200-Rel")}, nil, nil, runner, nil)

	summary, err := o.Run(context.Background(), blrun.ModeLoad, validConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrLoaderNotFound))
	require.Len(t, runner.calls, 1, "a launch failure aborts immediately")
	assert.Zero(t, summary.Succeeded())
	assert.Empty(t, summary.Results, "an item whose process never started has no outcome to record")
}

func TestRun_DeleteRequestsApproval(t *testing.T) {
	approver := &mockApprover{approved: true}
	synth := &mockSynthesizer{}
	runner := &mockRunner{}
	cfg := validConfig()
	cfg.DataDir = "project/data"

	o := newTestOrchestrator(&mockPlanner{items: plannedItems("200-Rel", "001-User")}, nil, synth, runner, approver)

	_, err := o.Run(context.Background(), blrun.ModeDelete, cfg)
	require.NoError(t, err)

	require.Len(t, approver.subjects, 1)
	assert.Equal(t, "data", approver.subjects[0], "approval subject is the data directory name")

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "delete_200-Rel_Template.xml", runner.calls[0].TemplatePath, "runner receives the synthesized template")
	assert.Len(t, synth.calls, 2)
}

func TestRun_DeleteDenialAbortsBeforeSynthesis(t *testing.T) {
	approver := &mockApprover{approved: false}
	synth := &mockSynthesizer{}
	runner := &mockRunner{}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User")}, nil, synth, runner, approver)

	summary, err := o.Run(context.Background(), blrun.ModeDelete, validConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrApprovalDenied))
	assert.Empty(t, synth.calls, "denial precedes template synthesis")
	assert.Empty(t, runner.calls, "denial precedes any loader invocation")
	assert.Empty(t, summary.Results)
}

func TestRun_ApprovalErrorAborts(t *testing.T) {
	approver := &mockApprover{err: errors.New("stdin closed")}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User")}, nil, nil, nil, approver)

	_, err := o.Run(context.Background(), blrun.ModeDelete, validConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approval failed")
}

func TestRun_LoadNeverAsksApproval(t *testing.T) {
	approver := &mockApprover{approved: false}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User")}, nil, nil, nil, approver)

	_, err := o.Run(context.Background(), blrun.ModeLoad, validConfig())
	require.NoError(t, err)
	assert.Empty(t, approver.subjects)
}

func TestRun_DeleteSynthesisFailureSkips(t *testing.T) {
	synth := &mockSynthesizer{errsByStem: map[string]error{
		"001-User": blrun.ErrMissingIDColumn,
	}}
	runner := &mockRunner{}
	o := newTestOrchestrator(&mockPlanner{items: plannedItems("200-Rel", "001-User")}, nil, synth, runner, nil)

	summary, err := o.Run(context.Background(), blrun.ModeDelete, validConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrFilesFailed))

	assert.Equal(t, 1, summary.Succeeded())
	assert.Equal(t, 1, summary.Skipped())
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "200-Rel", runner.calls[0].Stem)
}

func TestRun_ContextCancelledBetweenItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(&mockPlanner{items: plannedItems("001-User")}, nil, nil, nil, nil)

	_, err := o.Run(ctx, blrun.ModeLoad, validConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_RetryUsesResolvedTemplates(t *testing.T) {
	runner := &mockRunner{}
	synth := &mockSynthesizer{}
	items := []blrun.WorkItem{{Stem: "001-User", DataPath: "data/001-User.failed"}}
	o := newTestOrchestrator(&mockPlanner{items: items}, nil, synth, runner, nil)

	summary, err := o.Run(context.Background(), blrun.ModeRetry, validConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded())
	assert.Empty(t, synth.calls, "retry never synthesizes delete templates")
	require.Len(t, runner.calls, 1)
	assert.Equal(t, blrun.ModeRetry, runner.calls[0].Mode)
	assert.Equal(t, "001-User_Template.xml", runner.calls[0].TemplatePath)
}
