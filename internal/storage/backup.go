package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/core/domain"
)

// backupTimestampLayout gives second-resolution snapshot labels. Collisions
// within the same second get a numeric suffix instead of overwriting.
const backupTimestampLayout = "20060102_150405"

// BackupManager creates, lists, prunes and restores timestamped snapshots of
// artifact folders. Snapshots live under the backup root mirroring the
// primary path layout and are immutable once created.
type BackupManager struct {
	clock domain.Clock
}

func NewBackupManager(clock domain.Clock) *BackupManager {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &BackupManager{clock: clock}
}

// Create snapshots sourceFolder into a fresh timestamped folder under the
// backup root. The tree copy completes before backup_info.json is written, so
// the info record's presence marks a valid backup. After a successful create
// the retention sweep runs for the same artifact.
func (m *BackupManager) Create(sourceFolder, backupRoot, workspaceID string, artifactType domain.ArtifactType, artifactID string, retentionDays int) (string, error) {
	entries, err := os.ReadDir(sourceFolder)
	if err != nil || len(entries) == 0 {
		return "", domain.ErrSourceNotFound
	}

	base, err := ResolveBackupPath(backupRoot, workspaceID, artifactType, artifactID)
	if err != nil {
		return "", err
	}

	now := m.clock.Now().UTC()
	label := now.Format(backupTimestampLayout)
	dest := filepath.Join(base, label)
	for n := 2; ; n++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(base, fmt.Sprintf("%s_%d", label, n))
	}

	if err := copyTree(sourceFolder, dest, nil); err != nil {
		os.RemoveAll(dest)
		return "", fmt.Errorf("copy artifact folder: %w", err)
	}

	info := domain.BackupInfo{
		BackupTimestamp: now,
		SourceFolder:    sourceFolder,
		WorkspaceID:     workspaceID,
		ArtifactType:    artifactType,
		ArtifactID:      artifactID,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		os.RemoveAll(dest)
		return "", fmt.Errorf("marshal backup info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dest, backupInfoFileName), data, 0o644); err != nil {
		os.RemoveAll(dest)
		return "", fmt.Errorf("write backup info: %w", err)
	}

	if deleted, err := m.CleanupOld(backupRoot, workspaceID, artifactType, artifactID, retentionDays); err != nil {
		log.WithError(err).Warn("backup retention sweep failed")
	} else if deleted > 0 {
		log.WithFields(log.Fields{
			"workspace_id": workspaceID,
			"artifact_id":  artifactID,
			"deleted":      deleted,
		}).Info("pruned expired backups")
	}

	return dest, nil
}

// List returns the artifact's complete backups, newest first. Folders missing
// backup_info.json are interrupted copies and are skipped.
func (m *BackupManager) List(backupRoot, workspaceID string, artifactType domain.ArtifactType, artifactID string) ([]domain.BackupDescriptor, error) {
	base, err := ResolveBackupPath(backupRoot, workspaceID, artifactType, artifactID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup folder: %w", err)
	}

	var backups []domain.BackupDescriptor
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(base, entry.Name())
		if _, err := os.Stat(filepath.Join(path, backupInfoFileName)); err != nil {
			continue
		}
		ts, ok := parseBackupLabel(entry.Name())
		if !ok {
			continue
		}
		backups = append(backups, domain.BackupDescriptor{
			Path:      path,
			Label:     entry.Name(),
			Timestamp: ts,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Label > backups[j].Label
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// Latest returns the newest complete backup, or nil when there is none.
func (m *BackupManager) Latest(backupRoot, workspaceID string, artifactType domain.ArtifactType, artifactID string) (*domain.BackupDescriptor, error) {
	backups, err := m.List(backupRoot, workspaceID, artifactType, artifactID)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, nil
	}
	return &backups[0], nil
}

// CleanupOld deletes backups strictly older than now minus retentionDays and
// returns how many were removed. Re-running with nothing to prune deletes
// zero and is not an error.
func (m *BackupManager) CleanupOld(backupRoot, workspaceID string, artifactType domain.ArtifactType, artifactID string, retentionDays int) (int, error) {
	backups, err := m.List(backupRoot, workspaceID, artifactType, artifactID)
	if err != nil {
		return 0, err
	}

	cutoff := m.clock.Now().UTC().AddDate(0, 0, -retentionDays)
	deleted := 0
	for _, b := range backups {
		if b.Timestamp.Before(cutoff) {
			if err := os.RemoveAll(b.Path); err != nil {
				return deleted, fmt.Errorf("delete backup %s: %w", b.Label, err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// Revert replaces the live artifact folder's contents with the backup's,
// excluding the backup info record. The backup itself is untouched; restore
// markers are stamped into the restored metadata when present.
func (m *BackupManager) Revert(artifactFolder, backupPath string) error {
	if _, err := os.Stat(filepath.Join(backupPath, backupInfoFileName)); err != nil {
		return domain.ErrNoBackupAvailable
	}

	if err := os.RemoveAll(artifactFolder); err != nil {
		return fmt.Errorf("clear artifact folder: %w", err)
	}
	if err := copyTree(backupPath, artifactFolder, map[string]bool{backupInfoFileName: true}); err != nil {
		return fmt.Errorf("restore from backup: %w", err)
	}

	meta, err := ReadMetadata(artifactFolder)
	if err == nil {
		now := m.clock.Now().UTC()
		meta.LastRestored = &now
		meta.RestoredFromBackup = true
		if err := WriteMetadata(artifactFolder, meta); err != nil {
			return fmt.Errorf("stamp restored metadata: %w", err)
		}
	}
	return nil
}

// parseBackupLabel reads the timestamp prefix of a snapshot folder name,
// tolerating the collision suffix.
func parseBackupLabel(label string) (time.Time, bool) {
	if len(label) < len(backupTimestampLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(backupTimestampLayout, label[:len(backupTimestampLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// copyTree copies a folder recursively. Top-level names in skip are omitted.
func copyTree(src, dest string, skip map[string]bool) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(dest, 0o755)
		}
		first := rel
		if i := indexSeparator(rel); i >= 0 {
			first = rel[:i]
		}
		if skip[first] {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func indexSeparator(path string) int {
	for i := 0; i < len(path); i++ {
		if os.IsPathSeparator(path[i]) {
			return i
		}
	}
	return -1
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
