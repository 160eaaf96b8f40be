// Package detect locates the identifier column of a delimited data file.
package detect

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/plmtools/blrun/pkg/blrun"
)

// IDColumn returns the 1-based index of the identifier column in the data
// file at path.
//
// When hasHeader is true the first row is parsed with the configured
// delimiter and matched case-insensitively against the accepted identifier
// names (id, rel_id, relationship_id); the leftmost matching column wins.
// When hasHeader is false the file is not read at all: column 1 holds the
// identifier by convention.
//
// A header without any accepted name yields blrun.ErrMissingIDColumn, which
// is local to this file and not fatal to the batch.
func IDColumn(path, delimiter string, hasHeader bool) (int, error) {
	if !hasHeader {
		return 1, nil
	}

	header, err := readFirstRow(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read header row of %s: %w", path, err)
	}
	if strings.TrimSpace(header) == "" {
		return 0, fmt.Errorf("%s has an empty header row: %w", path, blrun.ErrMissingIDColumn)
	}

	sep := delimiter
	if sep == "" {
		sep = "\t"
	}

	accepted := make(map[string]bool)
	for _, name := range blrun.AcceptedIDNames() {
		accepted[name] = true
	}

	for i, col := range strings.Split(header, sep) {
		if accepted[strings.ToLower(strings.TrimSpace(col))] {
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("%s has no column named %s: %w",
		path, strings.Join(blrun.AcceptedIDNames(), ", "), blrun.ErrMissingIDColumn)
}

// readFirstRow reads the first line of the file without its line ending.
// Only the bytes of the first row are consumed.
func readFirstRow(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
