package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plmtools/blrun/pkg/blrun"
)

func seedDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data\n"), 0o644))
	}
	return dir
}

func stems(items []blrun.WorkItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Stem
	}
	return out
}

func TestPlan_LoadOrder(t *testing.T) {
	dir := seedDir(t, "200-Rel.txt", "001-User.txt", "100-part.txt", "050-Doc.txt")
	cfg := &blrun.RunConfig{DataDir: dir}

	items, err := NewPlanner().Plan(blrun.ModeLoad, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"001-User", "050-Doc", "100-part", "200-Rel"}, stems(items))
	for _, it := range items {
		assert.Equal(t, blrun.ModeLoad, it.Mode)
		assert.Equal(t, filepath.Join(dir, it.Stem+".txt"), it.DataPath)
		assert.Empty(t, it.TemplatePath, "templates resolve after planning")
	}
}

func TestPlan_DeleteIsExactReverseOfLoad(t *testing.T) {
	dir := seedDir(t, "001-User.txt", "200-Rel.txt", "150-Bom.txt")
	cfg := &blrun.RunConfig{DataDir: dir}
	p := NewPlanner()

	load, err := p.Plan(blrun.ModeLoad, cfg)
	require.NoError(t, err)
	del, err := p.Plan(blrun.ModeDelete, cfg)
	require.NoError(t, err)

	require.Len(t, del, len(load))
	for i := range load {
		assert.Equal(t, load[i].Stem, del[len(del)-1-i].Stem)
	}
	assert.Equal(t, []string{"200-Rel", "150-Bom", "001-User"}, stems(del))
}

func TestPlan_CaseInsensitiveOrdering(t *testing.T) {
	dir := seedDir(t, "b-file.txt", "A-File.txt", "c-file.txt")
	cfg := &blrun.RunConfig{DataDir: dir}

	items, err := NewPlanner().Plan(blrun.ModeLoad, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-File", "b-file", "c-file"}, stems(items))
}

func TestPlan_IgnoresOtherFilesAndSubdirs(t *testing.T) {
	dir := seedDir(t, "001-User.txt", "001-User_Template.xml", "notes.md", "001-User.failed")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "002-Deep.txt"), []byte("x"), 0o644))

	cfg := &blrun.RunConfig{DataDir: dir}
	items, err := NewPlanner().Plan(blrun.ModeLoad, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"001-User"}, stems(items), "enumeration is non-recursive and extension-filtered")
}

func TestPlan_RetryUsesFailedFiles(t *testing.T) {
	dir := seedDir(t, "200-Rel.failed", "001-User.failed", "001-User.txt")
	cfg := &blrun.RunConfig{DataDir: dir}

	items, err := NewPlanner().Plan(blrun.ModeRetry, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"001-User", "200-Rel"}, stems(items))
	for _, it := range items {
		assert.Equal(t, blrun.ModeRetry, it.Mode)
		assert.Equal(t, filepath.Join(dir, it.Stem+".failed"), it.DataPath)
	}
}

func TestPlan_RetryHonorsRetryDir(t *testing.T) {
	dataDir := seedDir(t, "001-User.txt")
	retryDir := seedDir(t, "001-User.failed")

	cfg := &blrun.RunConfig{DataDir: dataDir, RetryDir: retryDir}
	items, err := NewPlanner().Plan(blrun.ModeRetry, cfg)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, filepath.Join(retryDir, "001-User.failed"), items[0].DataPath)
}

func TestPlan_EmptyDirectory(t *testing.T) {
	cfg := &blrun.RunConfig{DataDir: t.TempDir()}

	_, err := NewPlanner().Plan(blrun.ModeLoad, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrNoDataFiles))
}

func TestPlan_MissingDirectory(t *testing.T) {
	cfg := &blrun.RunConfig{DataDir: filepath.Join(t.TempDir(), "absent")}

	_, err := NewPlanner().Plan(blrun.ModeLoad, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrInvalidConfig))
}

func TestPlan_InvalidMode(t *testing.T) {
	cfg := &blrun.RunConfig{DataDir: t.TempDir()}
	_, err := NewPlanner().Plan(blrun.Mode(42), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, blrun.ErrInvalidConfig))
}

func TestPlan_Deterministic(t *testing.T) {
	dir := seedDir(t, "001-User.txt", "200-Rel.txt", "100-Part.txt")
	cfg := &blrun.RunConfig{DataDir: dir}
	p := NewPlanner()

	first, err := p.Plan(blrun.ModeDelete, cfg)
	require.NoError(t, err)
	second, err := p.Plan(blrun.ModeDelete, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
