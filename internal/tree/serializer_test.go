package tree_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treemk/internal/tree"
)

func TestSaveLoad_PathsRelativeToDest(t *testing.T) {
	dest := t.TempDir()
	report := build(t, "root/\n├── src/\n│   └── main.go\n└── ../\n", dest, tree.ModeLenient)

	reportPath := filepath.Join(t.TempDir(), "reports", "run.json")
	require.NoError(t, tree.Save(report, reportPath))

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"path": "root/src/main.go"`)
	assert.Contains(t, string(raw), `"generator": "treemk"`)

	loaded, created, err := tree.Load(reportPath)
	require.NoError(t, err)
	assert.False(t, created.IsZero())

	assert.Equal(t, report.Dest, loaded.Dest)
	assert.Equal(t, report.RootPath, loaded.RootPath)
	assert.Equal(t, report.Fingerprint, loaded.Fingerprint)
	assert.Equal(t, report.Mode, loaded.Mode)
	require.Len(t, loaded.Entries, len(report.Entries))

	for i, e := range report.Entries {
		assert.Equal(t, e.Path, loaded.Entries[i].Path)
		assert.Equal(t, e.Dir, loaded.Entries[i].Dir)
		assert.Equal(t, e.Outcome, loaded.Entries[i].Outcome)
		assert.Equal(t, e.Failed(), loaded.Entries[i].Failed())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := tree.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, _, err := tree.Load(path)
	assert.Error(t, err)
}

func TestSaveLoad_CurrentDirRoot(t *testing.T) {
	dest := t.TempDir()
	report := build(t, ".\n└── a.txt\n", dest, tree.ModeLenient)

	reportPath := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, tree.Save(report, reportPath))

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"root": "."`)
	assert.Contains(t, string(raw), `"path": "a.txt"`)

	loaded, _, err := tree.Load(reportPath)
	require.NoError(t, err)
	assert.Equal(t, dest, loaded.RootPath)
	assert.Equal(t, filepath.Join(dest, "a.txt"), loaded.Entries[1].Path)
}
