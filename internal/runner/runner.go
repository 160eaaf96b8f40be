// Package runner invokes the external loader process for planned work items.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/plmtools/blrun/pkg/blrun"
)

// Runner executes the loader once per work item.
//
// Each invocation is a blocking call: the batch suspends for the full
// duration of the process and resumes with the next item. The loader runs
// with the runtime folder as working directory so it can resolve its
// libraries.
type Runner struct {
	logger blrun.Logger
}

// New creates a new Runner.
// Panics if logger is nil.
func New(logger blrun.Logger) *Runner {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Runner{logger: logger}
}

// ExecutablePath returns the loader executable inside the runtime folder.
func ExecutablePath(cfg *blrun.RunConfig) string {
	return filepath.Join(cfg.LoaderDir, blrun.LoaderExeName)
}

// VerifyRuntime checks that the loader can be launched at all: the runtime
// folder and executable exist and, on non-Windows hosts, wine is available
// to bridge the Windows executable. Failures here are configuration errors
// fatal to the whole run.
//
// Returns whether invocations must be wrapped with wine.
func VerifyRuntime(cfg *blrun.RunConfig) (useWine bool, err error) {
	exe := ExecutablePath(cfg)
	if info, statErr := os.Stat(exe); statErr != nil || info.IsDir() {
		return false, fmt.Errorf("%s not found in %s: %w", blrun.LoaderExeName, cfg.LoaderDir, blrun.ErrLoaderNotFound)
	}

	if runtime.GOOS == "windows" {
		return false, nil
	}
	if _, lookErr := exec.LookPath("wine"); lookErr != nil {
		return false, fmt.Errorf("windows executable on %s host and no wine in PATH: %w", runtime.GOOS, blrun.ErrLoaderNotFound)
	}
	return true, nil
}

// LogPath returns the per-file log for a work item, scoped to the mode's
// log subdirectory: <logs>/<stem>.log for load, <logs>/delete/<stem>.log
// for delete, <logs>/retry/<stem>.retry.log for retry.
func LogPath(item blrun.WorkItem, cfg *blrun.RunConfig) string {
	switch item.Mode {
	case blrun.ModeDelete:
		return filepath.Join(cfg.LogsDir, blrun.DeleteLogSubdir, item.Stem+".log")
	case blrun.ModeRetry:
		return filepath.Join(cfg.LogsDir, blrun.RetryLogSubdir, item.Stem+".retry.log")
	default:
		return filepath.Join(cfg.LogsDir, item.Stem+".log")
	}
}

// BuildArgs assembles the loader invocation for a work item:
//
//	[wine] <exe> -d <data> -c <config> -t <template> -l <log>
//
// Paths are made absolute because the process runs from the runtime folder,
// not the working directory.
func BuildArgs(item blrun.WorkItem, logPath string, cfg *blrun.RunConfig) []string {
	args := []string{}
	if cfg.UseWine {
		args = append(args, "wine")
	}
	args = append(args, ExecutablePath(cfg),
		"-d", absPath(item.DataPath),
		"-c", absPath(cfg.ConfigPath),
		"-t", absPath(item.TemplatePath),
		"-l", absPath(logPath),
	)
	return args
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// Run invokes the loader for one work item. The per-file log file is created
// (or overwritten) and receives the process's stdout and stderr; the loader
// additionally writes its own log through the -l flag.
//
// Exit code zero yields OutcomeSuccess; any other exit code yields
// OutcomeNonZeroExit and a nil error, since per-file loader failures do not
// halt the batch. A process that could not be started at all returns an
// error wrapping blrun.ErrLoaderNotFound.
func (r *Runner) Run(ctx context.Context, item blrun.WorkItem, cfg *blrun.RunConfig) (blrun.RunResult, error) {
	logPath := LogPath(item, cfg)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return blrun.RunResult{}, fmt.Errorf("cannot create log directory: %v: %w", err, blrun.ErrInvalidConfig)
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		return blrun.RunResult{}, fmt.Errorf("cannot create log file %s: %v: %w", logPath, err, blrun.ErrInvalidConfig)
	}
	defer logFile.Close()

	argv := BuildArgs(item, logPath, cfg)
	r.logger.Verbose("exec: %v (cwd %s)", argv, cfg.LoaderDir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cfg.LoaderDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	result := blrun.RunResult{
		Stem:    item.Stem,
		LogPath: logPath,
	}

	if runErr := cmd.Run(); runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.Outcome = blrun.OutcomeNonZeroExit
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctx.Err() != nil {
			return blrun.RunResult{}, ctx.Err()
		}
		return blrun.RunResult{}, fmt.Errorf("failed to launch loader: %v: %w", runErr, blrun.ErrLoaderNotFound)
	}

	result.Outcome = blrun.OutcomeSuccess
	return result, nil
}

// Verify Runner implements the interface at compile time
var _ blrun.LoaderRunner = (*Runner)(nil)
