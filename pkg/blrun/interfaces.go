package blrun

import "context"

// Planner enumerates and orders the work items for a mode. Planning is a pure
// function of the directory snapshot: identical directory contents always
// yield the identical ordered sequence, and the sequence is fully decided
// before execution begins.
type Planner interface {
	Plan(mode Mode, cfg *RunConfig) ([]WorkItem, error)
}

// TemplateResolver maps a data file stem to its load template.
// A miss is reported with ErrTemplateNotFound and is not fatal to the batch.
type TemplateResolver interface {
	Resolve(stem, dataPath string, cfg *RunConfig) (string, error)
}

// DeleteSynthesizer derives a delete-capable template from an insert template
// and the data file it pairs with. The synthesized template is persisted under
// the delete-templates directory; re-synthesis overwrites deterministically.
type DeleteSynthesizer interface {
	Synthesize(insertTemplate, dataPath string, cfg *RunConfig) (string, error)
}

// LoaderRunner invokes the external loader for one work item, directing its
// output to a per-file log scoped to the mode's log subdirectory.
// A non-zero exit is reported in the RunResult, not as an error; the returned
// error is reserved for launch failures, which are fatal to the whole run.
type LoaderRunner interface {
	Run(ctx context.Context, item WorkItem, cfg *RunConfig) (RunResult, error)
}

// Approver requests user approval before a destructive operation.
type Approver interface {
	// RequestApproval asks for confirmation to delete the contents loaded
	// from the named data directory. Returns whether approval was granted.
	RequestApproval(ctx context.Context, subject string) (bool, error)
}
