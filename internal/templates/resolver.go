// Package templates resolves load templates for data files and synthesizes
// delete-capable templates from insert templates.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plmtools/blrun/pkg/blrun"
)

// Resolver maps a data file stem to its load template.
//
// Resolution order, first hit wins:
//  1. <templates_dir>/<stem>.xml when a templates directory is configured
//  2. <stem>_Template.xml next to the data file
//  3. <stem>_Template.xml in the data directory (retry mode may scan a
//     separate directory, but templates stay with the original data)
//
// A miss returns blrun.ErrTemplateNotFound; the caller skips the file and
// the batch continues.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the template path for the given stem.
func (r *Resolver) Resolve(stem, dataPath string, cfg *blrun.RunConfig) (string, error) {
	var candidates []string

	if cfg.TemplatesDir != "" {
		candidates = append(candidates, filepath.Join(cfg.TemplatesDir, stem+blrun.TemplateExt))
	}

	sibling := filepath.Join(filepath.Dir(dataPath), stem+blrun.TemplateSuffix)
	candidates = append(candidates, sibling)

	if inData := filepath.Join(cfg.DataDir, stem+blrun.TemplateSuffix); inData != sibling {
		candidates = append(candidates, inData)
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}

	return "", fmt.Errorf("no template for %s (looked for %s): %w",
		stem, strings.Join(candidates, ", "), blrun.ErrTemplateNotFound)
}

// Verify Resolver implements the interface at compile time
var _ blrun.TemplateResolver = (*Resolver)(nil)
