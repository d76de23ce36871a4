package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/config"
	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
	"fabric-artifact-manager/internal/storage"
)

// ArtifactService orchestrates single-artifact operations: download, deploy,
// keyword replacement and revert, each wrapped in the per-artifact lock and
// the configured backup policy.
type ArtifactService struct {
	cfg       *config.Store
	fabric    ports.FabricClient
	backups   *storage.BackupManager
	actionLog ports.ActionLogRepository
	clock     domain.Clock
	locks     *lockTable
}

func NewArtifactService(cfg *config.Store, fabric ports.FabricClient, backups *storage.BackupManager, actionLog ports.ActionLogRepository, clock domain.Clock) *ArtifactService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &ArtifactService{
		cfg:       cfg,
		fabric:    fabric,
		backups:   backups,
		actionLog: actionLog,
		clock:     clock,
		locks:     newLockTable(),
	}
}

// Download fetches the latest definition from the vendor and overwrites the
// local copy. An existing local copy is snapshotted first when the backup
// policy says so; a first-ever download has nothing to back up and proceeds.
func (s *ArtifactService) Download(ctx context.Context, workspaceID, workspaceName, modelID, modelName string) (*domain.LocalArtifact, error) {
	cfg := s.cfg.Snapshot()

	folder, err := storage.ResolveArtifactPath(cfg.Storage.DataFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID, workspaceName, true)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(workspaceID, modelID)
	defer unlock()

	s.backupIfConfigured(cfg, folder, workspaceID, modelID, cfg.Storage.BackupOnDownload)

	// Backfill display names for metadata; failures here are non-fatal.
	if workspaceName == "" {
		if name, err := s.fabric.GetWorkspaceName(ctx, workspaceID); err == nil {
			workspaceName = name
		} else {
			workspaceName = workspaceID
		}
	}
	if modelName == "" {
		if name, err := s.fabric.GetSemanticModelName(ctx, workspaceID, modelID); err == nil {
			modelName = name
		} else {
			modelName = modelID
		}
	}

	def, err := s.fabric.GetDefinition(ctx, workspaceID, modelID)
	if err != nil {
		s.logAction(ctx, "download", workspaceID, modelID, "failed", err.Error())
		return nil, err
	}

	filesCount, err := writeDefinitionParts(def, folder)
	if err != nil {
		s.logAction(ctx, "download", workspaceID, modelID, "failed", err.Error())
		return nil, err
	}

	format := domain.DefinitionFormat(strings.ToUpper(def.Format))
	if format == "" {
		format = domain.FormatTMDL
	}

	now := s.clock.Now().UTC()
	meta := &domain.ArtifactMetadata{
		WorkspaceID:       workspaceID,
		WorkspaceName:     workspaceName,
		ArtifactID:        modelID,
		ArtifactName:      modelName,
		ArtifactType:      domain.ArtifactTypeSemanticModel,
		DownloadTimestamp: now,
		LastUpdated:       now,
		DefinitionFormat:  format,
		FilesCount:        filesCount,
		LastOperation:     "download",
	}
	if err := storage.WriteMetadata(folder, meta); err != nil {
		return nil, err
	}

	s.logAction(ctx, "download", workspaceID, modelID, "success", fmt.Sprintf("%d files", filesCount))

	return &domain.LocalArtifact{
		Metadata:   *meta,
		FolderPath: folder,
		HasBackup:  s.hasBackup(cfg, workspaceID, modelID),
	}, nil
}

// Deploy pushes the local definition back to the vendor. The local folder is
// snapshotted first per the backup-on-update policy.
func (s *ArtifactService) Deploy(ctx context.Context, workspaceID, modelID string) error {
	cfg := s.cfg.Snapshot()

	folder, err := storage.ResolveArtifactPath(cfg.Storage.DataFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID, "", true)
	if err != nil {
		return err
	}

	unlock := s.locks.acquire(workspaceID, modelID)
	defer unlock()

	if !folderExists(folder) {
		return domain.ErrArtifactNotDownloaded
	}

	s.backupIfConfigured(cfg, folder, workspaceID, modelID, cfg.Storage.BackupOnUpdate)

	format := domain.FormatTMDL
	meta, metaErr := storage.ReadMetadata(folder)
	if metaErr == nil && meta.DefinitionFormat != "" {
		format = meta.DefinitionFormat
	}

	def, err := buildDefinitionFromFolder(folder, format)
	if err != nil {
		return err
	}

	if err := s.fabric.UpdateDefinition(ctx, workspaceID, modelID, def); err != nil {
		s.logAction(ctx, "deploy", workspaceID, modelID, "failed", err.Error())
		return err
	}

	if metaErr == nil {
		meta.LastUpdated = s.clock.Now().UTC()
		meta.LastOperation = "deploy"
		if err := storage.WriteMetadata(folder, meta); err != nil {
			return err
		}
	}

	s.logAction(ctx, "deploy", workspaceID, modelID, "success", "")
	return nil
}

// ReplaceKeywords runs the keyword engine over the artifact's definition
// files and stamps the applied mappings into metadata when anything changed.
func (s *ArtifactService) ReplaceKeywords(ctx context.Context, workspaceID, modelID string, mappings []domain.Mapping) (domain.ReplacementStats, error) {
	cfg := s.cfg.Snapshot()

	folder, err := storage.ResolveArtifactPath(cfg.Storage.DataFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID, "", true)
	if err != nil {
		return domain.ReplacementStats{Status: domain.ReplacementFailed, Error: err.Error()}, err
	}

	unlock := s.locks.acquire(workspaceID, modelID)
	defer unlock()

	if !folderExists(folder) {
		return domain.ReplacementStats{Status: domain.ReplacementFailed, Error: domain.ErrArtifactNotDownloaded.Error()},
			domain.ErrArtifactNotDownloaded
	}

	s.backupIfConfigured(cfg, folder, workspaceID, modelID, cfg.Storage.BackupOnUpdate)

	files, err := storage.FindDefinitionFiles(folder)
	if err != nil {
		return domain.ReplacementStats{Status: domain.ReplacementFailed, Error: err.Error()}, err
	}
	if len(files) == 0 {
		return domain.ReplacementStats{
			Status:       domain.ReplacementNoChanges,
			Replacements: map[string]int{},
			Error:        "no definition files found",
		}, nil
	}

	stats, err := storage.ReplaceKeywords(files, mappings)
	if err != nil {
		s.logAction(ctx, "update-keywords", workspaceID, modelID, "failed", stats.Error)
		return stats, err
	}

	if stats.FilesUpdated > 0 {
		if meta, metaErr := storage.ReadMetadata(folder); metaErr == nil {
			meta.LastUpdated = s.clock.Now().UTC()
			meta.LastOperation = "server_name_update"
			meta.ServerMappings = make(map[string]string, len(mappings))
			for _, m := range mappings {
				meta.ServerMappings[m.Old] = m.New
			}
			if err := storage.WriteMetadata(folder, meta); err != nil {
				return stats, err
			}
		}
	}

	s.logAction(ctx, "update-keywords", workspaceID, modelID, "success",
		fmt.Sprintf("%d files updated", stats.FilesUpdated))
	return stats, nil
}

// Revert restores the artifact folder from its latest backup. Callers are
// expected to have checked HasBackup; a missing backup is still a hard error
// here, never a silent skip.
func (s *ArtifactService) Revert(ctx context.Context, workspaceID, modelID string) error {
	cfg := s.cfg.Snapshot()

	folder, err := storage.ResolveArtifactPath(cfg.Storage.DataFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID, "", true)
	if err != nil {
		return err
	}

	unlock := s.locks.acquire(workspaceID, modelID)
	defer unlock()

	latest, err := s.backups.Latest(cfg.Storage.BackupFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID)
	if err != nil {
		return err
	}
	if latest == nil {
		return domain.ErrNoBackupAvailable
	}

	if err := s.backups.Revert(folder, latest.Path); err != nil {
		s.logAction(ctx, "revert", workspaceID, modelID, "failed", err.Error())
		return err
	}

	s.logAction(ctx, "revert", workspaceID, modelID, "success", latest.Label)
	return nil
}

// ListBackups returns the artifact's snapshots, newest first.
func (s *ArtifactService) ListBackups(workspaceID, modelID string) ([]domain.BackupDescriptor, error) {
	cfg := s.cfg.Snapshot()
	return s.backups.List(cfg.Storage.BackupFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID)
}

// ValidateFolder checks a folder for the minimum files a semantic-model
// upload requires.
func (s *ArtifactService) ValidateFolder(folder string) domain.ValidationResult {
	result := domain.ValidationResult{FolderPath: folder, MissingFiles: []string{}}

	if !folderExists(folder) {
		result.MissingFiles = append(result.MissingFiles, "folder_not_found")
		return result
	}

	required := []string{
		"definition.pbism",
		"definition",
		filepath.Join("definition", "database.tmdl"),
		filepath.Join("definition", "model.tmdl"),
	}
	for _, rel := range required {
		if _, err := os.Stat(filepath.Join(folder, rel)); err != nil {
			result.MissingFiles = append(result.MissingFiles, filepath.ToSlash(rel))
		}
	}

	result.Valid = len(result.MissingFiles) == 0
	return result
}

func (s *ArtifactService) hasBackup(cfg config.Config, workspaceID, modelID string) bool {
	latest, err := s.backups.Latest(cfg.Storage.BackupFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID)
	return err == nil && latest != nil
}

// backupIfConfigured snapshots the folder when the policy flag and the global
// auto-backup switch are both on. A missing source (first download) or a
// failed copy skips the backup without failing the primary operation.
func (s *ArtifactService) backupIfConfigured(cfg config.Config, folder, workspaceID, modelID string, policyFlag bool) {
	if !cfg.Storage.EnableAutoBackup || !policyFlag {
		return
	}
	_, err := s.backups.Create(folder, cfg.Storage.BackupFolder, workspaceID, domain.ArtifactTypeSemanticModel, modelID, cfg.Storage.BackupRetentionDays)
	if err != nil && err != domain.ErrSourceNotFound {
		log.WithError(err).WithFields(log.Fields{
			"workspace_id": workspaceID,
			"artifact_id":  modelID,
		}).Warn("backup failed, continuing with primary operation")
	}
}

func (s *ArtifactService) logAction(ctx context.Context, action, workspaceID, modelID, status, detail string) {
	if s.actionLog == nil {
		return
	}
	entry := &domain.ActionLogEntry{
		ID:          uuid.New(),
		OccurredAt:  s.clock.Now().UTC(),
		Action:      action,
		WorkspaceID: workspaceID,
		ArtifactID:  modelID,
		Status:      status,
		Detail:      detail,
	}
	if err := s.actionLog.Append(ctx, entry); err != nil {
		log.WithError(err).Warn("append action log entry failed")
	}
}

func folderExists(folder string) bool {
	info, err := os.Stat(folder)
	return err == nil && info.IsDir()
}

// writeDefinitionParts materializes a vendor definition into the artifact
// folder, decoding base64-inlined payloads and rejecting part paths that
// would escape the folder.
func writeDefinitionParts(def *domain.Definition, folder string) (int, error) {
	if def == nil || len(def.Parts) == 0 {
		return 0, domain.ErrDefinitionMissing
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return 0, fmt.Errorf("create artifact folder: %w", err)
	}

	saved := 0
	for _, part := range def.Parts {
		if part.Path == "" || part.Payload == "" {
			continue
		}

		rel := filepath.Clean(filepath.FromSlash(part.Path))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return saved, fmt.Errorf("definition part path escapes artifact folder: %q", part.Path)
		}

		content := []byte(part.Payload)
		if part.PayloadType == "InlineBase64" {
			decoded, err := base64.StdEncoding.DecodeString(part.Payload)
			if err != nil {
				log.WithField("part", part.Path).Warn("skipping part with undecodable payload")
				continue
			}
			content = decoded
		}

		target := filepath.Join(folder, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return saved, fmt.Errorf("create part folder: %w", err)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return saved, fmt.Errorf("write part %s: %w", part.Path, err)
		}
		saved++
	}
	return saved, nil
}

// buildDefinitionFromFolder re-encodes the folder tree as a vendor definition,
// skipping the local metadata records.
func buildDefinitionFromFolder(folder string, format domain.DefinitionFormat) (*domain.Definition, error) {
	def := &domain.Definition{Format: string(format)}

	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if name == "metadata.json" || name == "backup_info.json" {
			return nil
		}

		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		def.Parts = append(def.Parts, domain.DefinitionPart{
			Path:        filepath.ToSlash(rel),
			Payload:     base64.StdEncoding.EncodeToString(content),
			PayloadType: "InlineBase64",
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build definition from folder: %w", err)
	}
	if len(def.Parts) == 0 {
		return nil, domain.ErrArtifactNotDownloaded
	}
	return def, nil
}
