package dto

import "fabric-artifact-manager/internal/core/domain"

// MappingRequest is one old/new server-name pair. Pairs arrive as an ordered
// list; order decides precedence when matches overlap.
type MappingRequest struct {
	OldServer string `json:"old_server" binding:"required"`
	NewServer string `json:"new_server" binding:"required"`
}

func ToMappings(reqs []MappingRequest) []domain.Mapping {
	mappings := make([]domain.Mapping, 0, len(reqs))
	for _, r := range reqs {
		mappings = append(mappings, domain.Mapping{Old: r.OldServer, New: r.NewServer})
	}
	return mappings
}

// BatchItemRequest references one artifact in a bulk operation.
type BatchItemRequest struct {
	WorkspaceID   string `json:"workspace_id" binding:"required"`
	DatasetID     string `json:"dataset_id" binding:"required"`
	WorkspaceName string `json:"workspace_name"`
	DatasetName   string `json:"dataset_name"`
}

func ToBatchEntries(items []BatchItemRequest) []domain.BatchEntry {
	entries := make([]domain.BatchEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, domain.BatchEntry{
			WorkspaceID:   item.WorkspaceID,
			ArtifactID:    item.DatasetID,
			WorkspaceName: item.WorkspaceName,
			ArtifactName:  item.DatasetName,
			Status:        domain.BatchStatusMissing,
		})
	}
	return entries
}

// BulkRequest drives a bulk download/deploy/revert.
type BulkRequest struct {
	Items []BatchItemRequest `json:"items" binding:"required,min=1"`
}

// BulkReplaceRequest drives a bulk keyword replacement.
type BulkReplaceRequest struct {
	Items    []BatchItemRequest `json:"items" binding:"required,min=1"`
	Mappings []MappingRequest   `json:"mappings" binding:"required,min=1"`
}

// DownloadRequest carries optional display names for a single download.
type DownloadRequest struct {
	WorkspaceName string `json:"workspace_name"`
	DatasetName   string `json:"dataset_name"`
}

// ReplaceKeywordsRequest drives a single-artifact keyword replacement.
type ReplaceKeywordsRequest struct {
	Mappings []MappingRequest `json:"mappings" binding:"required,min=1"`
}

// ValidateFolderRequest names a local folder to check before upload.
type ValidateFolderRequest struct {
	FolderPath string `json:"folder_path" binding:"required"`
}
