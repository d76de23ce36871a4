package domain

import "errors"

// ============================================================================
// Storage Errors
// ============================================================================

var (
	ErrMetadataNotFound      = errors.New("artifact metadata not found")
	ErrCorruptMetadata       = errors.New("artifact metadata is corrupt")
	ErrSourceNotFound        = errors.New("source folder not found or empty")
	ErrNoBackupAvailable     = errors.New("no backup available for artifact")
	ErrArtifactNotDownloaded = errors.New("definition folder not found, download first")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrInvalidWorkspaceID    = errors.New("workspace ID is required and must be a valid path segment")
	ErrInvalidArtifactID     = errors.New("artifact ID is required and must be a valid path segment")
	ErrEmptyMapping          = errors.New("keyword mapping requires non-empty old and new values")
	ErrNoMappings            = errors.New("at least one keyword mapping is required")
	ErrMissingCSVColumn      = errors.New("CSV header must include workspace_id and dataset_id columns")
	ErrInvalidRetention      = errors.New("backup retention days must be between 1 and 365")
	ErrInvalidWorkerCount    = errors.New("worker count must be between 1 and 10")
	ErrInvalidTimeout        = errors.New("timeout and delay values must be positive")
	ErrInvalidRetryCount     = errors.New("retry counts must be between 1 and 100")
	ErrInvalidNamingStrategy = errors.New("output naming strategy must be model_name or model_id")
	ErrInvalidLogLevel       = errors.New("invalid log level")
)

// ============================================================================
// Remote Operation Errors
// ============================================================================

var (
	ErrRemoteOperationFailed = errors.New("vendor API operation failed")
	ErrOperationTimedOut     = errors.New("vendor API operation timed out")
	ErrDefinitionMissing     = errors.New("no definition found in vendor response")
)

// ============================================================================
// Keyword Replacement Errors
// ============================================================================

var (
	// ErrPartialScan means one or more definition files could not be read or
	// rewritten, so the replacement run as a whole is reported failed.
	ErrPartialScan = errors.New("keyword replacement aborted: file scan failed")
)

// ============================================================================
// Preset Store Errors
// ============================================================================

var (
	ErrPresetNotFound     = errors.New("mapping preset not found")
	ErrPresetNameConflict = errors.New("mapping preset with this name already exists")
	ErrInvalidPresetName  = errors.New("preset name is required")
)
