package services

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/core/domain"
)

// BulkService reconciles externally-provided artifact lists against the local
// inventory and drives batches of single-artifact operations with per-item
// isolation.
type BulkService struct {
	artifacts *ArtifactService
}

func NewBulkService(artifacts *ArtifactService) *BulkService {
	return &BulkService{artifacts: artifacts}
}

// Reconcile classifies each entry against the local inventory. Matching
// entries become "local" and get display names backfilled from metadata, but
// only where the caller left a gap: explicit input is authoritative over
// cached data, so reconciliation fills, never overwrites. Unmatched entries
// keep their missing/error status and lose any stale local-reference fields.
func (s *BulkService) Reconcile(entries []domain.BatchEntry, inventory map[domain.InventoryKey]domain.LocalArtifact) []domain.BatchEntry {
	out := make([]domain.BatchEntry, len(entries))
	for i, entry := range entries {
		local, found := inventory[entry.Key()]
		if found {
			entry.Status = domain.BatchStatusLocal
			entry.HasBackup = local.HasBackup
			entry.FolderPath = local.FolderPath
			if entry.WorkspaceName == "" {
				entry.WorkspaceName = local.Metadata.WorkspaceName
			}
			if entry.ArtifactName == "" {
				entry.ArtifactName = local.Metadata.ArtifactName
			}
		} else {
			if entry.Status != domain.BatchStatusError {
				entry.Status = domain.BatchStatusMissing
			}
			entry.HasBackup = false
			entry.FolderPath = ""
		}
		out[i] = entry
	}
	return out
}

// BatchOptions carries per-operation parameters for a batch run.
type BatchOptions struct {
	Mappings []domain.Mapping // for BatchOpReplace
}

// RunBatch executes one operation across all items with a bounded worker
// pool. Items are isolated: one failure neither stops nor rolls back the
// rest. Results land at each item's input position regardless of completion
// order, and Successful+Failed == Total == len(items) holds for any outcome
// mix. Cancellation is observed between items only, so in-flight items always
// finish or fail cleanly; the cancelled remainder is counted as failed.
func (s *BulkService) RunBatch(ctx context.Context, items []domain.BatchEntry, op domain.BatchOperation, opts BatchOptions) domain.BatchSummary {
	summary := domain.BatchSummary{
		Total:   len(items),
		Results: make([]domain.BatchItemResult, len(items)),
	}
	if len(items) == 0 {
		return summary
	}

	workers := s.artifacts.cfg.Snapshot().Vendor.ParallelBulkWorkers
	if op == domain.BatchOpDownload {
		workers = s.artifacts.cfg.Snapshot().Vendor.ParallelDownloadWorkers
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	type job struct {
		index int
		entry domain.BatchEntry
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					summary.Results[j.index] = failedResult(j.entry, err.Error())
					continue
				}
				summary.Results[j.index] = s.runItem(ctx, j.entry, op, opts)
			}
		}()
	}

	for i, item := range items {
		jobs <- job{index: i, entry: item}
	}
	close(jobs)
	wg.Wait()

	replacements := map[string]int{}
	for _, r := range summary.Results {
		if r.Status == "success" {
			summary.Successful++
		} else {
			summary.Failed++
		}
		for keyword, count := range r.Replacements {
			replacements[keyword] += count
		}
	}
	if len(replacements) > 0 {
		summary.ReplacementsSummary = replacements
	}

	log.WithFields(log.Fields{
		"operation":  string(op),
		"total":      summary.Total,
		"successful": summary.Successful,
		"failed":     summary.Failed,
	}).Info("batch completed")

	return summary
}

func (s *BulkService) runItem(ctx context.Context, entry domain.BatchEntry, op domain.BatchOperation, opts BatchOptions) domain.BatchItemResult {
	result := domain.BatchItemResult{
		WorkspaceID: entry.WorkspaceID,
		ArtifactID:  entry.ArtifactID,
		Status:      "success",
	}

	var err error
	switch op {
	case domain.BatchOpDownload:
		_, err = s.artifacts.Download(ctx, entry.WorkspaceID, entry.WorkspaceName, entry.ArtifactID, entry.ArtifactName)
	case domain.BatchOpDeploy:
		err = s.artifacts.Deploy(ctx, entry.WorkspaceID, entry.ArtifactID)
	case domain.BatchOpReplace:
		var stats domain.ReplacementStats
		stats, err = s.artifacts.ReplaceKeywords(ctx, entry.WorkspaceID, entry.ArtifactID, opts.Mappings)
		result.FilesUpdated = stats.FilesUpdated
		result.Replacements = stats.Replacements
	case domain.BatchOpRevert:
		err = s.artifacts.Revert(ctx, entry.WorkspaceID, entry.ArtifactID)
	default:
		return failedResult(entry, "unknown batch operation: "+string(op))
	}

	if err != nil {
		return domain.BatchItemResult{
			WorkspaceID:  entry.WorkspaceID,
			ArtifactID:   entry.ArtifactID,
			Status:       "failed",
			Error:        err.Error(),
			FilesUpdated: result.FilesUpdated,
		}
	}
	return result
}

func failedResult(entry domain.BatchEntry, msg string) domain.BatchItemResult {
	if msg == "" {
		msg = "operation failed"
	}
	return domain.BatchItemResult{
		WorkspaceID: entry.WorkspaceID,
		ArtifactID:  entry.ArtifactID,
		Status:      "failed",
		Error:       msg,
	}
}
