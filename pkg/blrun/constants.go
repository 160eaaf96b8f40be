package blrun

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Batch completed with no failures
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration or parameters
	ExitLoaderMissing  = 11 // Loader executable or runtime unreachable
	ExitApprovalDenied = 12 // User denied delete approval
	ExitFilesFailed    = 13 // One or more files exited non-zero
	ExitNoDataFiles    = 14 // No data files found for the requested mode
)

// File naming conventions shared between the planner, resolver, and executor.
const (
	// DataFileExt is the recognized extension for data files.
	DataFileExt = ".txt"

	// FailedFileExt is the extension of failed-row files produced by the loader.
	FailedFileExt = ".failed"

	// TemplateExt is the extension of load templates.
	TemplateExt = ".xml"

	// TemplateSuffix is the sibling-template naming convention: a data file
	// <stem>.txt pairs with <stem>_Template.xml in the same directory.
	TemplateSuffix = "_Template.xml"
)

// External loader runtime conventions. The runtime folder layout is fixed by
// the loader distribution and cannot be configured.
const (
	// LoaderExeName is the loader executable inside the runtime folder.
	LoaderExeName = "BatchLoaderCmd.exe"

	// RuntimeConfigName is the loader's own config shipped in the runtime folder.
	RuntimeConfigName = "BatchLoaderConfig.xml"

	// DefaultConfigName is the CLI config file blrun reads when --config is not given.
	DefaultConfigName = "CLIBatchLoaderConfig.xml"
)

// Default directory layout relative to the working directory.
const (
	DefaultDataDir            = "./data"
	DefaultLogsDir            = "./logs"
	DefaultDeleteTemplatesDir = "./templates_delete"
)

// Log subdirectories per mode. Load mode logs directly under the logs dir.
const (
	DeleteLogSubdir = "delete"
	RetryLogSubdir  = "retry"
)

// DefaultKeyField is the business key used for item-like deletes when the
// entity type has no entry in the key-field mapping.
const DefaultKeyField = "item_number"

// DefaultForceApprovalCountdown is the countdown duration before a forced
// delete approval proceeds.
const DefaultForceApprovalCountdown = 5 * time.Second

// AcceptedIDNames lists the header names recognized as the identifier column,
// compared case-insensitively. The leftmost column matching any of these wins.
func AcceptedIDNames() []string {
	return []string{"id", "rel_id", "relationship_id"}
}

// DefaultRelationshipMarkers lists the substrings that classify a template's
// declared entity type as relationship-like when no markers are configured.
func DefaultRelationshipMarkers() []string {
	return []string{"BOM"}
}
