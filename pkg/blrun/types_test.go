package blrun

import (
	"errors"
	"testing"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeLoad, "load"},
		{ModeDelete, "delete"},
		{ModeRetry, "retry"},
		{Mode(99), "Unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestModeIsValid(t *testing.T) {
	for _, m := range []Mode{ModeLoad, ModeDelete, ModeRetry} {
		if !m.IsValid() {
			t.Errorf("Mode %s should be valid", m)
		}
	}
	if Mode(-1).IsValid() || Mode(3).IsValid() {
		t.Error("out-of-range modes should be invalid")
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeSuccess, "success"},
		{OutcomeNonZeroExit, "non-zero exit"},
		{OutcomeSkipped, "skipped"},
		{Outcome(7), "Unknown(7)"},
	}
	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(tt.outcome), got, tt.want)
		}
	}
}

func validConfig() RunConfig {
	return RunConfig{
		ConfigPath: "./CLIBatchLoaderConfig.xml",
		LoaderDir:  "/opt/loader",
		DataDir:    "./data",
		LogsDir:    "./logs",
		FirstRow:   2,
	}
}

func TestRunConfigValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestRunConfigValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"missing config path", func(c *RunConfig) { c.ConfigPath = "" }},
		{"missing loader dir", func(c *RunConfig) { c.LoaderDir = "" }},
		{"missing data dir", func(c *RunConfig) { c.DataDir = "" }},
		{"missing logs dir", func(c *RunConfig) { c.LogsDir = "" }},
		{"negative first row", func(c *RunConfig) { c.FirstRow = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

func TestRunConfigValidate_MultipleErrors(t *testing.T) {
	cfg := RunConfig{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got: %v", err)
	}
}

func TestRunConfigHasHeader(t *testing.T) {
	tests := []struct {
		firstRow int
		want     bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{5, true},
	}
	for _, tt := range tests {
		cfg := RunConfig{FirstRow: tt.firstRow}
		if got := cfg.HasHeader(); got != tt.want {
			t.Errorf("FirstRow=%d: HasHeader() = %v, want %v", tt.firstRow, got, tt.want)
		}
	}
}

func TestRunConfigKeyFieldFor(t *testing.T) {
	cfg := RunConfig{KeyFields: map[string]string{
		"Part":     "item_number",
		"Document": "document_code",
	}}

	if got := cfg.KeyFieldFor("Document"); got != "document_code" {
		t.Errorf("KeyFieldFor(Document) = %q", got)
	}
	if got := cfg.KeyFieldFor("Unknown Type"); got != DefaultKeyField {
		t.Errorf("KeyFieldFor fallback = %q, want %q", got, DefaultKeyField)
	}

	var empty RunConfig
	if got := empty.KeyFieldFor("Part"); got != DefaultKeyField {
		t.Errorf("nil map fallback = %q, want %q", got, DefaultKeyField)
	}
}

func TestRunConfigRetryRoot(t *testing.T) {
	cfg := RunConfig{DataDir: "./data"}
	if got := cfg.RetryRoot(); got != "./data" {
		t.Errorf("RetryRoot() = %q, want data dir", got)
	}
	cfg.RetryDir = "./failed"
	if got := cfg.RetryRoot(); got != "./failed" {
		t.Errorf("RetryRoot() = %q, want retry dir", got)
	}
}

func TestSummaryCounts(t *testing.T) {
	s := Summary{
		Mode: ModeLoad,
		Results: []RunResult{
			{Stem: "a", Outcome: OutcomeSuccess},
			{Stem: "b", Outcome: OutcomeSuccess},
			{Stem: "c", Outcome: OutcomeNonZeroExit, ExitCode: 1},
			{Stem: "d", Outcome: OutcomeSkipped, SkipReason: "missing template"},
		},
	}

	if got := s.Succeeded(); got != 2 {
		t.Errorf("Succeeded() = %d, want 2", got)
	}
	if got := s.Failed(); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
	if got := s.Skipped(); got != 1 {
		t.Errorf("Skipped() = %d, want 1", got)
	}
}
