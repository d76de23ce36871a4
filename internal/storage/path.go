// Package storage implements the on-disk artifact layout: deterministic path
// resolution, the per-artifact metadata record, timestamped backups with
// retention, and keyword replacement over definition files.
package storage

import (
	"path/filepath"
	"regexp"
	"strings"

	"fabric-artifact-manager/internal/core/domain"
)

var invalidFolderChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFolderName replaces characters that are invalid in folder names.
// Only relevant for the legacy workspace-name layout; ID-keyed paths never
// need it.
func SanitizeFolderName(name string) string {
	return invalidFolderChars.ReplaceAllString(name, "_")
}

// validPathSegment rejects identifiers that are empty or could escape the
// base folder when joined into a path.
func validPathSegment(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

// ResolveArtifactPath computes the canonical location of an artifact:
//
//	<base>/<workspace_id>/<artifact_type_folder>/<artifact_id>/
//
// The workspace ID keys the top segment by default; the display name is a
// legacy fallback only, since names change and IDs do not. Pure function, no
// I/O; callers create directories.
func ResolveArtifactPath(base, workspaceID string, artifactType domain.ArtifactType, artifactID, workspaceName string, useWorkspaceID bool) (string, error) {
	if !validPathSegment(workspaceID) {
		return "", domain.ErrInvalidWorkspaceID
	}
	if !validPathSegment(artifactID) {
		return "", domain.ErrInvalidArtifactID
	}

	workspaceFolder := workspaceID
	if !useWorkspaceID && workspaceName != "" {
		workspaceFolder = SanitizeFolderName(workspaceName)
	}

	return filepath.Join(base, workspaceFolder, artifactType.Folder(), artifactID), nil
}

// ResolveBackupPath mirrors ResolveArtifactPath under the backup root. The
// timestamped snapshot folders live below the returned path.
func ResolveBackupPath(backupRoot, workspaceID string, artifactType domain.ArtifactType, artifactID string) (string, error) {
	if !validPathSegment(workspaceID) {
		return "", domain.ErrInvalidWorkspaceID
	}
	if !validPathSegment(artifactID) {
		return "", domain.ErrInvalidArtifactID
	}
	return filepath.Join(backupRoot, workspaceID, artifactType.Folder(), artifactID), nil
}
