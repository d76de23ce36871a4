package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fabric-artifact-manager/internal/core/domain"
)

const (
	metadataFileName   = "metadata.json"
	backupInfoFileName = "backup_info.json"
)

// WriteMetadata serializes the artifact record to metadata.json inside the
// artifact folder. The write is atomic (temp file then rename) so an
// interrupted process never leaves a half-written record behind.
func WriteMetadata(folder string, meta *domain.ArtifactMetadata) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("create artifact folder: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tmp, err := os.CreateTemp(folder, metadataFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp metadata file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close metadata file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(folder, metadataFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename metadata file: %w", err)
	}
	return nil
}

// ReadMetadata loads metadata.json from the artifact folder. A missing file
// is ErrMetadataNotFound (expected for never-downloaded artifacts); a file
// that exists but does not parse is ErrCorruptMetadata and must not be
// treated as missing.
func ReadMetadata(folder string) (*domain.ArtifactMetadata, error) {
	data, err := os.ReadFile(filepath.Join(folder, metadataFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrMetadataNotFound
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta domain.ArtifactMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCorruptMetadata, err)
	}
	return &meta, nil
}
