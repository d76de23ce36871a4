package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabric-artifact-manager/internal/core/domain"
)

func TestMetadataRoundTrip(t *testing.T) {
	folder := t.TempDir()
	ts := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	meta := &domain.ArtifactMetadata{
		WorkspaceID:       "ws-1",
		WorkspaceName:     "Sales",
		ArtifactID:        "model-1",
		ArtifactName:      "Revenue",
		ArtifactType:      domain.ArtifactTypeSemanticModel,
		DownloadTimestamp: ts,
		LastUpdated:       ts,
		DefinitionFormat:  domain.FormatTMDL,
		FilesCount:        7,
		LastOperation:     "download",
		ServerMappings:    map[string]string{"old.sql": "new.sql"},
	}
	require.NoError(t, WriteMetadata(folder, meta))

	got, err := ReadMetadata(folder)
	require.NoError(t, err)
	assert.Equal(t, meta, got)

	// No temp files may survive the atomic write.
	entries, err := os.ReadDir(folder)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "metadata.json", entries[0].Name())
}

func TestReadMetadata_NotFound(t *testing.T) {
	_, err := ReadMetadata(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrMetadataNotFound)
}

func TestReadMetadata_Corrupt(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "metadata.json"), []byte("{not json"), 0o644))

	_, err := ReadMetadata(folder)
	assert.ErrorIs(t, err, domain.ErrCorruptMetadata)
	// Corrupt must stay distinguishable from missing.
	assert.NotErrorIs(t, err, domain.ErrMetadataNotFound)
}
