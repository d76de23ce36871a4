package domain

import "time"

// ArtifactType identifies the kind of workspace artifact being managed.
type ArtifactType string

const (
	ArtifactTypeSemanticModel ArtifactType = "semantic-model"
	ArtifactTypeReport        ArtifactType = "report"
)

// Folder returns the pluralized on-disk folder segment for the type.
// New artifact types only need a new case here; the path scheme is unchanged.
func (t ArtifactType) Folder() string {
	switch t {
	case ArtifactTypeSemanticModel:
		return "semantic-models"
	case ArtifactTypeReport:
		return "reports"
	default:
		return string(t) + "s"
	}
}

type DefinitionFormat string

const (
	FormatTMDL DefinitionFormat = "TMDL"
	FormatTMSL DefinitionFormat = "TMSL"
)

// ArtifactMetadata is the provenance record stored as metadata.json inside
// every downloaded artifact folder. workspace_id and artifact_id are the
// immutable vendor identifiers; the display names are mutable and never used
// as path keys.
type ArtifactMetadata struct {
	WorkspaceID        string            `json:"workspace_id"`
	WorkspaceName      string            `json:"workspace_name"`
	ArtifactID         string            `json:"artifact_id"`
	ArtifactName       string            `json:"artifact_name"`
	ArtifactType       ArtifactType      `json:"artifact_type"`
	DownloadTimestamp  time.Time         `json:"download_timestamp"`
	LastUpdated        time.Time         `json:"last_updated"`
	DefinitionFormat   DefinitionFormat  `json:"definition_format"`
	FilesCount         int               `json:"files_count"`
	LastOperation      string            `json:"last_operation,omitempty"`
	ServerMappings     map[string]string `json:"server_mappings,omitempty"`
	LastRestored       *time.Time        `json:"last_restored,omitempty"`
	RestoredFromBackup bool              `json:"restored_from_backup,omitempty"`
}

// BackupInfo is written as backup_info.json into a backup folder after the
// copy completes. Its presence marks the backup as complete and valid.
type BackupInfo struct {
	BackupTimestamp time.Time    `json:"backup_timestamp"`
	SourceFolder    string       `json:"source_folder"`
	WorkspaceID     string       `json:"workspace_id"`
	ArtifactType    ArtifactType `json:"artifact_type"`
	ArtifactID      string       `json:"artifact_id"`
}

// BackupDescriptor describes one snapshot of an artifact folder.
type BackupDescriptor struct {
	Path      string    `json:"path"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// LocalArtifact is one entry of the local inventory: an artifact folder found
// on disk together with its metadata and backup availability.
type LocalArtifact struct {
	Metadata   ArtifactMetadata `json:"metadata"`
	FolderPath string           `json:"folder_path"`
	HasBackup  bool             `json:"has_backup"`
}

// WorkspaceInventory groups the local inventory by workspace folder.
type WorkspaceInventory struct {
	WorkspaceID   string          `json:"workspace_id"`
	WorkspaceName string          `json:"workspace_name"`
	Artifacts     []LocalArtifact `json:"semantic_models"`
}

// ValidationResult reports whether a folder contains the minimum definition
// files required for upload.
type ValidationResult struct {
	Valid        bool     `json:"valid"`
	MissingFiles []string `json:"missing_files"`
	FolderPath   string   `json:"folder_path"`
}
