package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/plmtools/blrun/pkg/blrun"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves when it expires,
// used when the --force flag is provided.
type ForcedApprover struct {
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover() blrun.Approver {
	return &ForcedApprover{
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves when it expires.
func (a *ForcedApprover) RequestApproval(ctx context.Context, subject string) (bool, error) {
	fmt.Fprintf(a.output, "\n!!! DANGER: forced delete of every record loaded from '%s' !!!\n", subject)

	countdownSeconds := int(blrun.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDeleting in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with delete batch...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ blrun.Approver = (*ForcedApprover)(nil)
