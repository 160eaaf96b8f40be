package services

import (
	"context"

	"github.com/plmtools/blrun/pkg/blrun"
)

type mockPlanner struct {
	items []blrun.WorkItem
	err   error
}

func (m *mockPlanner) Plan(mode blrun.Mode, _ *blrun.RunConfig) ([]blrun.WorkItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]blrun.WorkItem, len(m.items))
	copy(out, m.items)
	for i := range out {
		out[i].Mode = mode
	}
	return out, nil
}

type mockResolver struct {
	// errsByStem overrides the default resolution for specific stems.
	errsByStem map[string]error
}

func (m *mockResolver) Resolve(stem, _ string, _ *blrun.RunConfig) (string, error) {
	if err, ok := m.errsByStem[stem]; ok {
		return "", err
	}
	return stem + "_Template.xml", nil
}

type mockSynthesizer struct {
	errsByStem map[string]error
	calls      []string
}

func (m *mockSynthesizer) Synthesize(insertTemplate, dataPath string, _ *blrun.RunConfig) (string, error) {
	m.calls = append(m.calls, insertTemplate)
	for stem, err := range m.errsByStem {
		if insertTemplate == stem+"_Template.xml" {
			return "", err
		}
	}
	return "delete_" + insertTemplate, nil
}

type mockRunner struct {
	exitCodes map[string]int
	launchErr error
	calls     []blrun.WorkItem
}

func (m *mockRunner) Run(_ context.Context, item blrun.WorkItem, _ *blrun.RunConfig) (blrun.RunResult, error) {
	m.calls = append(m.calls, item)
	if m.launchErr != nil {
		return blrun.RunResult{}, m.launchErr
	}
	result := blrun.RunResult{
		Stem:    item.Stem,
		LogPath: item.Stem + ".log",
	}
	if code, ok := m.exitCodes[item.Stem]; ok && code != 0 {
		result.Outcome = blrun.OutcomeNonZeroExit
		result.ExitCode = code
		return result, nil
	}
	result.Outcome = blrun.OutcomeSuccess
	return result, nil
}

type mockApprover struct {
	approved bool
	err      error
	subjects []string
}

func (m *mockApprover) RequestApproval(_ context.Context, subject string) (bool, error) {
	m.subjects = append(m.subjects, subject)
	return m.approved, m.err
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}
