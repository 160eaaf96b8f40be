package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plmtools/blrun/internal/aml"
	"github.com/plmtools/blrun/pkg/blrun"
)

// BuildCLIConfig derives a clean CLI config document from a runtime
// BatchLoaderConfig.xml. Only the fields the loader's command-line mode
// consumes are carried over, in fixed order, followed by <loader_dir> so
// later runs can locate the runtime without --loader-dir.
func BuildCLIConfig(runtimeRoot *aml.Node, loaderDir string) *aml.Node {
	root := &aml.Node{Name: "BatchLoaderConfig"}
	for _, tag := range cliConfigTagOrder {
		root.AppendChild(tag).Text = pickFirstText(runtimeRoot, tag)
	}

	dir := root.AppendChild("loader_dir")
	dir.Text = loaderDir
	dir.LeadingComment = "Runtime folder used by blrun (absolute or relative to this file)"
	return root
}

// InitFromRuntime reads the runtime config inside loaderDir and writes a
// clean CLI config to targetPath. If targetPath is an existing directory, the
// default config name is appended.
func InitFromRuntime(loaderDir, targetPath string) (string, error) {
	runtimePath := filepath.Join(loaderDir, blrun.RuntimeConfigName)
	if _, err := os.Stat(runtimePath); err != nil {
		return "", fmt.Errorf("runtime %s not found in %s: %w", blrun.RuntimeConfigName, loaderDir, blrun.ErrLoaderNotFound)
	}

	runtimeRoot, err := aml.ParseFile(runtimePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse runtime config: %w", err)
	}

	target := targetPath
	if target == "" {
		target = blrun.DefaultConfigName
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, blrun.DefaultConfigName)
	}

	if err := aml.WriteFile(target, BuildCLIConfig(runtimeRoot, loaderDir)); err != nil {
		return "", fmt.Errorf("failed to write CLI config: %w", err)
	}
	return target, nil
}
