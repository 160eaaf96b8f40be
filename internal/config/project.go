package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrProjectConfigNotFound is returned when blrun.yaml does not exist.
// Callers can check for this with errors.Is(err, config.ErrProjectConfigNotFound);
// the project file is optional.
var ErrProjectConfigNotFound = errors.New("project config not found")

// ProjectConfig is the optional blrun.yaml in the working directory. It holds
// conventions that are project-specific rather than loader-specific: the
// business key per entity type for item-like deletes, the markers that
// classify a template's type as relationship-like, and directory overrides.
type ProjectConfig struct {
	// KeyFields maps entity types to their business key field, e.g.
	// "Part: item_number". Types not listed fall back to item_number.
	KeyFields map[string]string `yaml:"key_fields"`

	// RelationshipMarkers are substrings of a template's declared type that
	// mark it as a relationship (default: BOM).
	RelationshipMarkers []string `yaml:"relationship_markers"`

	Dirs struct {
		Data            string `yaml:"data,omitempty"`
		Templates       string `yaml:"templates,omitempty"`
		Logs            string `yaml:"logs,omitempty"`
		DeleteTemplates string `yaml:"delete_templates,omitempty"`
		Retry           string `yaml:"retry,omitempty"`
	} `yaml:"dirs"`
}

// ProjectConfigFileName is the project file blrun looks for in the working directory.
const ProjectConfigFileName = "blrun.yaml"

// LoadProject reads blrun.yaml from dir.
func LoadProject(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, ProjectConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProjectConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
