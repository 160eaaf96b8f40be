package blrun

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Mode selects how a batch run processes the data directory.
type Mode int

const (
	// ModeLoad processes data files forward, ordered for referential safety.
	ModeLoad Mode = iota
	// ModeDelete processes data files in reverse order using synthesized
	// delete templates, so relationship rows go before the items they reference.
	ModeDelete
	// ModeRetry replays failed-row files produced by earlier runs.
	ModeRetry
)

// String returns a human-readable representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeLoad:
		return "load"
	case ModeDelete:
		return "delete"
	case ModeRetry:
		return "retry"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// IsValid returns true if the Mode is a defined value.
func (m Mode) IsValid() bool {
	return m >= ModeLoad && m <= ModeRetry
}

// WorkItem is one planned unit of work: a data file and, once resolved, the
// template it will be loaded with. Immutable after planning; consumed exactly
// once by the executor.
type WorkItem struct {
	// Stem is the data file's name without its extension. It joins the file
	// to its template and its log.
	Stem string

	// DataPath is the path of the data file (or failed-row file in retry mode).
	DataPath string

	// TemplatePath is the resolved template path. Empty until resolution;
	// an item whose template cannot be resolved never reaches the executor.
	TemplatePath string

	// Mode the item was planned for.
	Mode Mode
}

// Outcome classifies the result of one work item.
type Outcome int

const (
	// OutcomeSuccess means the loader exited zero.
	OutcomeSuccess Outcome = iota
	// OutcomeNonZeroExit means the loader ran but reported failure.
	OutcomeNonZeroExit
	// OutcomeSkipped means the item never reached the loader.
	OutcomeSkipped
)

// String returns a human-readable representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNonZeroExit:
		return "non-zero exit"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// RunResult records the outcome of one work item. Results live only for the
// duration of the run; the per-file logs on disk are the durable record.
type RunResult struct {
	Stem     string
	ExitCode int
	LogPath  string
	Outcome  Outcome

	// SkipReason explains an OutcomeSkipped result (missing template,
	// missing id column, synthesis failure).
	SkipReason string
}

// Summary aggregates the results of a batch run.
type Summary struct {
	// RunID identifies this run in operator-facing output so log references
	// can be correlated with reports.
	RunID uuid.UUID

	Mode    Mode
	Results []RunResult
}

// Succeeded returns the number of items that completed with exit code zero.
func (s *Summary) Succeeded() int { return s.countOutcome(OutcomeSuccess) }

// Failed returns the number of items whose loader invocation exited non-zero.
func (s *Summary) Failed() int { return s.countOutcome(OutcomeNonZeroExit) }

// Skipped returns the number of items that never reached the loader.
func (s *Summary) Skipped() int { return s.countOutcome(OutcomeSkipped) }

func (s *Summary) countOutcome(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// RunConfig is the resolved execution configuration for one batch run.
// It is constructed once at startup from flags, environment, and config files,
// then passed by reference to each component; no component performs ambient
// lookups.
type RunConfig struct {
	// ConfigPath is the CLI config XML handed to the loader via -c.
	ConfigPath string

	// LoaderDir is the runtime folder containing the loader executable and
	// its libraries. The loader must run with this as working directory.
	LoaderDir string

	// DataDir holds the data files for load and delete modes.
	DataDir string

	// TemplatesDir is the optional central templates directory. Empty means
	// templates live next to their data files.
	TemplatesDir string

	// LogsDir is the root of per-file logs for this run.
	LogsDir string

	// RetryDir is where retry mode looks for failed-row files.
	// Empty defaults to DataDir.
	RetryDir string

	// DeleteTemplatesDir is where synthesized delete templates are written.
	DeleteTemplatesDir string

	// Delimiter is the single-character field delimiter of the data files,
	// as configured for the loader.
	Delimiter string

	// FirstRow is the loader's 1-based first data row. A value greater than 1
	// means the data files carry a header row.
	FirstRow int

	// KeyFields maps entity types to the business key field used for
	// item-like deletes. Types absent from the map use DefaultKeyField.
	KeyFields map[string]string

	// RelationshipMarkers are substrings that classify a template's declared
	// type as relationship-like. Empty means DefaultRelationshipMarkers.
	RelationshipMarkers []string

	// UseWine wraps the loader invocation with wine on non-Windows hosts.
	UseWine bool

	// Force skips the interactive delete approval.
	Force bool

	// Verbose enables detailed logging.
	Verbose bool
}

// HasHeader reports whether the configured first data row implies a header row.
func (c *RunConfig) HasHeader() bool {
	return c.FirstRow > 1
}

// KeyFieldFor returns the business key field for an entity type, falling back
// to DefaultKeyField when the type has no configured mapping.
func (c *RunConfig) KeyFieldFor(entityType string) string {
	if f, ok := c.KeyFields[entityType]; ok && f != "" {
		return f
	}
	return DefaultKeyField
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.ConfigPath == "" {
		errs = append(errs, fmt.Errorf("ConfigPath is required: %w", ErrInvalidConfig))
	}

	if c.LoaderDir == "" {
		errs = append(errs, fmt.Errorf("LoaderDir is required: %w", ErrInvalidConfig))
	}

	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("DataDir is required: %w", ErrInvalidConfig))
	}

	if c.LogsDir == "" {
		errs = append(errs, fmt.Errorf("LogsDir is required: %w", ErrInvalidConfig))
	}

	if c.FirstRow < 0 {
		errs = append(errs, fmt.Errorf("FirstRow cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// RetryRoot returns the directory retry mode scans for failed-row files.
func (c *RunConfig) RetryRoot() string {
	if c.RetryDir != "" {
		return c.RetryDir
	}
	return c.DataDir
}
