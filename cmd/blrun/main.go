package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/plmtools/blrun/internal/cli"
	"github.com/plmtools/blrun/pkg/blrun"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(blrun.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(blrun.ExitCodeForError(err))
	}
}
