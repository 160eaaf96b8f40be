package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plmtools/blrun/pkg/blrun"
)

// CleanFailed removes the failed-row files a previous run left behind, so the
// next retry starts from a clean slate. Returns the number of files removed.
// A missing retry directory is not an error; there is simply nothing to clean.
func CleanFailed(cfg *blrun.RunConfig, logger blrun.Logger) (int, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}

	dir := cfg.RetryRoot()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Verbose("retry directory %s does not exist, nothing to clean", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("cannot read directory %s: %v: %w", dir, err, blrun.ErrInvalidConfig)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), blrun.FailedFileExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("cannot remove %s: %w", path, err)
		}
		logger.Verbose("removed %s", path)
		removed++
	}

	logger.Info("Removed %d failed-row file(s) from %s", removed, dir)
	return removed, nil
}
