package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabric-artifact-manager/internal/core/domain"
)

func writeDefinitionFile(t *testing.T, folder, name, content string) string {
	t.Helper()
	path := filepath.Join(folder, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindDefinitionFiles(t *testing.T) {
	folder := t.TempDir()
	tmdl := writeDefinitionFile(t, folder, "definition/model.tmdl", "model")
	bim := writeDefinitionFile(t, folder, "model.bim", "{}")
	writeDefinitionFile(t, folder, "metadata.json", "{}")
	writeDefinitionFile(t, folder, "backup_info.json", "{}")
	writeDefinitionFile(t, folder, "readme.txt", "ignored")

	files, err := FindDefinitionFiles(folder)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tmdl, bim}, files)
}

func TestReplaceKeywords_NoMatches(t *testing.T) {
	folder := t.TempDir()
	file := writeDefinitionFile(t, folder, "model.tmdl", "source: prod-sql-01\n")

	stats, err := ReplaceKeywords([]string{file}, []domain.Mapping{{Old: "absent-server", New: "other"}})
	require.NoError(t, err)

	assert.Equal(t, domain.ReplacementNoChanges, stats.Status)
	assert.Equal(t, 0, stats.FilesUpdated)
	// Zero-match keys are omitted entirely, not reported as zero.
	assert.Empty(t, stats.Replacements)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "source: prod-sql-01\n", string(content))
}

func TestReplaceKeywords_CaseInsensitiveCounting(t *testing.T) {
	folder := t.TempDir()
	first := writeDefinitionFile(t, folder, "a.tmdl", "server OldServer and OLDSERVER here\n")
	second := writeDefinitionFile(t, folder, "b.tmdl", "oldserver twice: OldSERVER\n")

	stats, err := ReplaceKeywords([]string{first, second}, []domain.Mapping{{Old: "OldServer", New: "NewServer"}})
	require.NoError(t, err)

	assert.Equal(t, domain.ReplacementUpdated, stats.Status)
	assert.Equal(t, 2, stats.FilesUpdated)
	assert.Equal(t, map[string]int{"OldServer": 4}, stats.Replacements)

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	assert.Equal(t, "server NewServer and NewServer here\n", string(a))
	assert.Equal(t, "NewServer twice: NewServer\n", string(b))
}

func TestReplaceKeywords_LiteralMatching(t *testing.T) {
	folder := t.TempDir()
	file := writeDefinitionFile(t, folder, "model.tmdl", "host sql.prod.local and sqlXprodYlocal\n")

	stats, err := ReplaceKeywords([]string{file}, []domain.Mapping{{Old: "sql.prod.local", New: "sql.dev.local"}})
	require.NoError(t, err)

	// Dots are literal, never regex wildcards.
	assert.Equal(t, map[string]int{"sql.prod.local": 1}, stats.Replacements)
	content, _ := os.ReadFile(file)
	assert.Equal(t, "host sql.dev.local and sqlXprodYlocal\n", string(content))
}

func TestReplaceKeywords_FirstMappingWins(t *testing.T) {
	folder := t.TempDir()
	file := writeDefinitionFile(t, folder, "model.tmdl", "connect server-one-a now\n")

	// The shorter key comes first: mapping order decides, not match length.
	mappings := []domain.Mapping{
		{Old: "server", New: "replaced-short"},
		{Old: "server-one", New: "replaced-long"},
	}
	stats, err := ReplaceKeywords([]string{file}, mappings)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"server": 1}, stats.Replacements)
	content, _ := os.ReadFile(file)
	assert.Equal(t, "connect replaced-short-one-a now\n", string(content))
}

func TestReplaceKeywords_ValidationErrors(t *testing.T) {
	folder := t.TempDir()
	file := writeDefinitionFile(t, folder, "model.tmdl", "text")

	_, err := ReplaceKeywords([]string{file}, nil)
	assert.ErrorIs(t, err, domain.ErrNoMappings)

	_, err = ReplaceKeywords([]string{file}, []domain.Mapping{{Old: "", New: "x"}})
	assert.ErrorIs(t, err, domain.ErrEmptyMapping)
}

func TestReplaceKeywords_UnreadableFileFailsWholeCall(t *testing.T) {
	folder := t.TempDir()
	file := writeDefinitionFile(t, folder, "model.tmdl", "OldServer\n")
	missing := filepath.Join(folder, "gone.tmdl")

	stats, err := ReplaceKeywords([]string{missing, file}, []domain.Mapping{{Old: "OldServer", New: "NewServer"}})
	assert.ErrorIs(t, err, domain.ErrPartialScan)
	assert.Equal(t, domain.ReplacementFailed, stats.Status)
	assert.NotEmpty(t, stats.Error)
}
