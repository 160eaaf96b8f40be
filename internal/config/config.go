// Package config reads the loader's CLI configuration XML and the optional
// blrun.yaml project file, and derives clean CLI configs from a loader
// runtime folder.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/plmtools/blrun/internal/aml"
)

// LoaderConfig is the parsed CLI configuration XML handed to the loader
// via -c. blrun itself consumes only Delimiter, FirstRow, and LoaderDir;
// the remaining fields pass through to the loader and to init-config.
type LoaderConfig struct {
	Server          string
	Database        string
	User            string
	Password        string
	MaxProcesses    string
	Threads         string
	LinesPerProcess string
	Encoding        string
	LogLevel        string
	LogFile         string

	// Delimiter is the normalized single-character field delimiter.
	Delimiter string

	// FirstRow is the loader's 1-based first data row. Values greater than 1
	// mean the data files carry a header row. Missing or invalid values
	// default to 1 (headerless).
	FirstRow int

	// LoaderDir is the runtime folder from <loader_dir>, resolved to an
	// absolute path against the config file's directory. Empty when the
	// element is absent.
	LoaderDir string
}

// cliConfigTagOrder is the fixed element order of a generated CLI config.
// The loader reads elements by name, but a stable order keeps generated
// configs diffable.
var cliConfigTagOrder = []string{
	"server",
	"db",
	"user",
	"password",
	"max_processes",
	"delimiter",
	"threads",
	"encoding",
	"lines_per_process",
	"first_row",
	"log_level",
	"log_file",
}

// Load parses the CLI config XML at path.
func Load(path string) (*LoaderConfig, error) {
	root, err := aml.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse loader config: %w", err)
	}

	cfg := &LoaderConfig{
		Server:          pickFirstText(root, "server"),
		Database:        pickFirstText(root, "db"),
		User:            pickFirstText(root, "user"),
		Password:        pickFirstText(root, "password"),
		MaxProcesses:    pickFirstText(root, "max_processes"),
		Threads:         pickFirstText(root, "threads"),
		LinesPerProcess: pickFirstText(root, "lines_per_process"),
		Encoding:        pickFirstText(root, "encoding"),
		LogLevel:        pickFirstText(root, "log_level"),
		LogFile:         pickFirstText(root, "log_file"),
		Delimiter:       NormalizeDelimiter(pickFirstText(root, "delimiter")),
		FirstRow:        parseFirstRow(pickFirstText(root, "first_row")),
	}

	if dir := pickFirstText(root, "loader_dir"); dir != "" {
		if !filepath.IsAbs(dir) {
			// Relative loader_dir resolves against the config file's folder.
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		cfg.LoaderDir = filepath.Clean(dir)
	}

	return cfg, nil
}

// NormalizeDelimiter maps the <delimiter> element text to a single-character
// delimiter. Recognizes the spellings "\t"/"tab", ","/"comma", "|"/"pipe",
// passes any other single character through, and defaults to tab.
func NormalizeDelimiter(raw string) string {
	if raw == "\t" {
		return "\t"
	}
	val := strings.TrimSpace(raw)
	if val == "" {
		return "\t"
	}
	switch strings.ToLower(val) {
	case `\t`, "tab":
		return "\t"
	case ",", "comma":
		return ","
	case "|", "pipe":
		return "|"
	}
	if len(val) == 1 {
		return val
	}
	return "\t"
}

func parseFirstRow(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pickFirstText returns the first non-empty text among direct children with
// the given name, then the first child's text, then the empty string.
// Hand-edited configs sometimes carry duplicate elements; the loader honors
// the first, so blrun does too.
func pickFirstText(root *aml.Node, name string) string {
	var first *aml.Node
	for _, c := range root.Children {
		if c.Name != name {
			continue
		}
		if first == nil {
			first = c
		}
		if text := strings.TrimSpace(c.Text); text != "" {
			return text
		}
	}
	if first == nil {
		return ""
	}
	return strings.TrimSpace(first.Text)
}
