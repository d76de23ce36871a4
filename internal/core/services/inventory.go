package services

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/core/domain"
	"fabric-artifact-manager/internal/storage"
)

// Inventory scans the data root and returns every downloaded artifact grouped
// by workspace. Folders with corrupt metadata are included with identifier
// fallbacks and logged; they must not disappear silently.
func (s *ArtifactService) Inventory() ([]domain.WorkspaceInventory, error) {
	cfg := s.cfg.Snapshot()
	root := cfg.Storage.DataFolder

	wsEntries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var result []domain.WorkspaceInventory
	for _, wsEntry := range wsEntries {
		if !wsEntry.IsDir() {
			continue
		}
		workspaceID := wsEntry.Name()
		modelsDir := filepath.Join(root, workspaceID, domain.ArtifactTypeSemanticModel.Folder())

		modelEntries, err := os.ReadDir(modelsDir)
		if err != nil {
			continue
		}

		inv := domain.WorkspaceInventory{
			WorkspaceID:   workspaceID,
			WorkspaceName: workspaceID,
		}

		for _, modelEntry := range modelEntries {
			if !modelEntry.IsDir() {
				continue
			}
			modelID := modelEntry.Name()
			folder := filepath.Join(modelsDir, modelID)

			artifact := domain.LocalArtifact{
				FolderPath: folder,
				HasBackup:  s.hasBackup(cfg, workspaceID, modelID),
			}

			meta, err := storage.ReadMetadata(folder)
			switch {
			case err == nil:
				artifact.Metadata = *meta
				if meta.WorkspaceName != "" {
					inv.WorkspaceName = meta.WorkspaceName
				}
			case errors.Is(err, domain.ErrCorruptMetadata):
				log.WithFields(log.Fields{
					"workspace_id": workspaceID,
					"artifact_id":  modelID,
				}).Warn("corrupt metadata in artifact folder")
				fallthrough
			default:
				artifact.Metadata = domain.ArtifactMetadata{
					WorkspaceID:   workspaceID,
					WorkspaceName: workspaceID,
					ArtifactID:    modelID,
					ArtifactName:  modelID,
					ArtifactType:  domain.ArtifactTypeSemanticModel,
				}
			}

			inv.Artifacts = append(inv.Artifacts, artifact)
		}

		if len(inv.Artifacts) > 0 {
			sort.Slice(inv.Artifacts, func(i, j int) bool {
				return inv.Artifacts[i].Metadata.ArtifactID < inv.Artifacts[j].Metadata.ArtifactID
			})
			result = append(result, inv)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WorkspaceID < result[j].WorkspaceID
	})
	return result, nil
}

// InventoryIndex flattens the inventory into a lookup keyed by
// (workspace_id, artifact_id), the shape reconciliation consumes.
func (s *ArtifactService) InventoryIndex() (map[domain.InventoryKey]domain.LocalArtifact, error) {
	workspaces, err := s.Inventory()
	if err != nil {
		return nil, err
	}

	index := make(map[domain.InventoryKey]domain.LocalArtifact)
	for _, ws := range workspaces {
		for _, artifact := range ws.Artifacts {
			key := domain.InventoryKey{
				WorkspaceID: artifact.Metadata.WorkspaceID,
				ArtifactID:  artifact.Metadata.ArtifactID,
			}
			index[key] = artifact
		}
	}
	return index, nil
}

// CleanupAllBackups runs the retention sweep across every artifact under the
// backup root. Invoked once at startup so long-idle installs still converge;
// per-artifact sweeps otherwise run after each backup creation.
func (s *ArtifactService) CleanupAllBackups() (int, error) {
	cfg := s.cfg.Snapshot()
	root := cfg.Storage.BackupFolder

	wsEntries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	total := 0
	for _, wsEntry := range wsEntries {
		if !wsEntry.IsDir() {
			continue
		}
		workspaceID := wsEntry.Name()
		modelsDir := filepath.Join(root, workspaceID, domain.ArtifactTypeSemanticModel.Folder())

		modelEntries, err := os.ReadDir(modelsDir)
		if err != nil {
			continue
		}
		for _, modelEntry := range modelEntries {
			if !modelEntry.IsDir() {
				continue
			}
			deleted, err := s.backups.CleanupOld(root, workspaceID, domain.ArtifactTypeSemanticModel, modelEntry.Name(), cfg.Storage.BackupRetentionDays)
			if err != nil {
				log.WithError(err).WithField("artifact_id", modelEntry.Name()).Warn("retention sweep failed for artifact")
				continue
			}
			total += deleted
		}
	}
	return total, nil
}
