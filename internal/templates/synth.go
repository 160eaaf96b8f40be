package templates

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/plmtools/blrun/internal/aml"
	"github.com/plmtools/blrun/internal/detect"
	"github.com/plmtools/blrun/pkg/blrun"
)

// EntityClass tags the subject of an insert template. Synthesis rules differ:
// relationships delete by their own identifier, items delete through a
// business-key selection clause.
type EntityClass int

const (
	// ItemLike is a base entity (Part, Document, User, ...).
	ItemLike EntityClass = iota
	// RelationshipLike is a link entity (Part BOM, ...), recognized by its
	// declared type containing a relationship marker.
	RelationshipLike
)

// String returns a human-readable representation of the EntityClass.
func (c EntityClass) String() string {
	switch c {
	case ItemLike:
		return "item"
	case RelationshipLike:
		return "relationship"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Classify tags an entity type string using the configured relationship
// markers, compared case-insensitively as substrings.
func Classify(entityType string, markers []string) EntityClass {
	if len(markers) == 0 {
		markers = blrun.DefaultRelationshipMarkers()
	}
	lower := strings.ToLower(entityType)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return RelationshipLike
		}
	}
	return ItemLike
}

// Synthesizer derives delete-capable templates from insert templates.
// It does not mutate the originals: the derived template is written under the
// delete-templates directory, named after the source template, and is
// regenerated deterministically on every delete run.
type Synthesizer struct{}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize builds the delete template for insertTemplate paired with the
// data file at dataPath, writes it under cfg.DeleteTemplatesDir, and returns
// its path.
//
// The identifier binding comes from the ID Column Detector: @N where N is the
// detected 1-based column. Relationship-like subjects delete by id; item-like
// subjects delete by a where-clause on the type's business key.
func (s *Synthesizer) Synthesize(insertTemplate, dataPath string, cfg *blrun.RunConfig) (string, error) {
	idCol, err := detect.IDColumn(dataPath, cfg.Delimiter, cfg.HasHeader())
	if err != nil {
		return "", err
	}

	root, err := aml.ParseFile(insertTemplate)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, blrun.ErrTemplateSynthesis)
	}

	item := root.FindFirst("Item")
	if item == nil {
		return "", fmt.Errorf("no <Item> element in %s: %w", insertTemplate, blrun.ErrTemplateSynthesis)
	}

	entityType, _ := item.Attr("type")

	item.SetAttr("action", "delete")
	// Delete keying lives on the Item element itself; field bindings of the
	// insert template no longer apply.
	item.RemoveChildren()

	placeholder := fmt.Sprintf("@%d", idCol)
	switch Classify(entityType, cfg.RelationshipMarkers) {
	case RelationshipLike:
		item.RemoveAttr("where")
		item.SetAttr("id", placeholder)
	default:
		item.RemoveAttr("id")
		item.SetAttr("where", fmt.Sprintf("[%s].%s='%s'",
			strings.ReplaceAll(entityType, " ", "_"), cfg.KeyFieldFor(entityType), placeholder))
	}

	outPath := filepath.Join(cfg.DeleteTemplatesDir, filepath.Base(insertTemplate))
	if err := aml.WriteFile(outPath, root); err != nil {
		return "", fmt.Errorf("failed to persist delete template: %v: %w", err, blrun.ErrTemplateSynthesis)
	}
	return outPath, nil
}

// Verify Synthesizer implements the interface at compile time
var _ blrun.DeleteSynthesizer = (*Synthesizer)(nil)
