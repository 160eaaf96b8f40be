// Package ui holds the console-facing pieces: approval prompts for the
// destructive delete batch, interactivity detection and the password prompt.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/plmtools/blrun/pkg/blrun"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the data directory
// name to confirm the delete batch.
type InteractiveApprover struct {
	input  io.Reader
	output io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover reading from stdin
// and writing to stderr.
func NewInteractiveApprover() blrun.Approver {
	return &InteractiveApprover{
		input:  os.Stdin,
		output: os.Stderr,
	}
}

// RequestApproval prompts the user to type the subject to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, subject string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to DELETE every record loaded from '%s'\n", subject)
	fmt.Fprintln(a.output, "Data files are processed in reverse load order and the loaded items are permanently removed!")
	fmt.Fprintf(a.output, "\nTo confirm, type '%s' and press Enter: ", subject)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		line, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case line := <-inputChan:
		if line == subject {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with delete batch...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match '%s'. Operation cancelled.\n", line, subject)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ blrun.Approver = (*InteractiveApprover)(nil)
