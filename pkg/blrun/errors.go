package blrun

import "errors"

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Per-file conditions (ErrTemplateNotFound, ErrMissingIDColumn,
// ErrTemplateSynthesis) never abort a batch: the affected file is skipped and
// the remaining work items still run. Configuration-level conditions
// (ErrInvalidConfig, ErrLoaderNotFound) abort the run immediately because they
// would fail every item the same way.
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLoaderNotFound indicates the loader executable or its runtime
	// folder could not be located or launched.
	ErrLoaderNotFound = errors.New("loader runtime not found")

	// ErrTemplateNotFound indicates no template could be resolved for a data file.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMissingIDColumn indicates a data file's header row has none of the
	// accepted identifier column names.
	ErrMissingIDColumn = errors.New("missing id column")

	// ErrTemplateSynthesis indicates a delete template could not be derived
	// from an insert template.
	ErrTemplateSynthesis = errors.New("delete template synthesis failed")

	// ErrApprovalDenied indicates the user denied approval for delete mode.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrNoDataFiles indicates no eligible files were found for the requested mode.
	ErrNoDataFiles = errors.New("no data files found")

	// ErrFilesFailed indicates one or more loader invocations exited non-zero.
	ErrFilesFailed = errors.New("one or more files failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrLoaderNotFound):
		return ExitLoaderMissing
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrFilesFailed):
		return ExitFilesFailed
	case errors.Is(err, ErrNoDataFiles):
		return ExitNoDataFiles
	}

	return ExitGeneralError
}
