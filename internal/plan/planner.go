// Package plan enumerates and orders the work items of a batch run.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/plmtools/blrun/pkg/blrun"
)

// Planner produces the ordered work item sequence for a mode.
//
// Planning is a pure function of the directory snapshot: the same directory
// contents always produce the same sequence, and the whole sequence is
// decided before any item executes, so files appearing mid-run never join
// the current batch.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan returns the ordered work items for the mode.
//
// Load mode lists data files directly under the data directory (non-recursive)
// in case-insensitive lexicographic order. Delete mode is the exact reverse:
// relationship files carry high prefixes and load last, so they must delete
// first, before the items they reference. Retry mode lists failed-row files
// under the retry directory in load order.
func (p *Planner) Plan(mode blrun.Mode, cfg *blrun.RunConfig) ([]blrun.WorkItem, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("unknown mode %d: %w", int(mode), blrun.ErrInvalidConfig)
	}

	dir := cfg.DataDir
	ext := blrun.DataFileExt
	if mode == blrun.ModeRetry {
		dir = cfg.RetryRoot()
		ext = blrun.FailedFileExt
	}

	names, err := listByExtension(dir, ext)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no %s files in %s: %w", ext, dir, blrun.ErrNoDataFiles)
	}

	sortFold(names)
	if mode == blrun.ModeDelete {
		reverse(names)
	}

	items := make([]blrun.WorkItem, 0, len(names))
	for _, name := range names {
		items = append(items, blrun.WorkItem{
			Stem:     strings.TrimSuffix(name, filepath.Ext(name)),
			DataPath: filepath.Join(dir, name),
			Mode:     mode,
		})
	}
	return items, nil
}

// listByExtension returns the names of regular files directly under dir with
// the given extension, compared case-insensitively.
func listByExtension(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %v: %w", dir, err, blrun.ErrInvalidConfig)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// sortFold orders names case-insensitively; ties between names that differ
// only in case break on the raw bytes so ordering stays total.
func sortFold(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

func reverse(names []string) {
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
}

// Verify Planner implements the interface at compile time
var _ blrun.Planner = (*Planner)(nil)
