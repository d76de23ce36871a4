package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fabric-artifact-manager/internal/core/domain"
	"fabric-artifact-manager/internal/testutil"
)

func TestReconcile_FillsGapsOnly(t *testing.T) {
	svc := NewBulkService(nil)

	inventory := map[domain.InventoryKey]domain.LocalArtifact{
		{WorkspaceID: "ws-1", ArtifactID: "model-1"}: {
			FolderPath: "/data/ws-1/semantic-models/model-1",
			HasBackup:  true,
			Metadata: domain.ArtifactMetadata{
				WorkspaceID:   "ws-1",
				WorkspaceName: "Cached Workspace",
				ArtifactID:    "model-1",
				ArtifactName:  "Cached Model",
			},
		},
	}

	entries := []domain.BatchEntry{
		// Caller-supplied name must survive reconciliation.
		{WorkspaceID: "ws-1", ArtifactID: "model-1", WorkspaceName: "Foo"},
		// Unmatched entry keeps missing status and loses local references.
		{WorkspaceID: "ws-2", ArtifactID: "model-2", HasBackup: true, FolderPath: "/stale"},
		// Error status is sticky through reconciliation.
		{WorkspaceID: "ws-3", ArtifactID: "model-3", Status: domain.BatchStatusError},
	}

	out := svc.Reconcile(entries, inventory)
	require.Len(t, out, 3)

	assert.Equal(t, domain.BatchStatusLocal, out[0].Status)
	assert.Equal(t, "Foo", out[0].WorkspaceName)
	assert.Equal(t, "Cached Model", out[0].ArtifactName)
	assert.True(t, out[0].HasBackup)
	assert.Equal(t, "/data/ws-1/semantic-models/model-1", out[0].FolderPath)

	assert.Equal(t, domain.BatchStatusMissing, out[1].Status)
	assert.False(t, out[1].HasBackup)
	assert.Empty(t, out[1].FolderPath)

	assert.Equal(t, domain.BatchStatusError, out[2].Status)
}

func TestRunBatch_AggregateInvariant(t *testing.T) {
	fabricClient := new(testutil.MockFabricClient)
	fabricClient.On("GetDefinition", mock.Anything, "ws-1", mock.Anything).Return(testDefinition(), nil)
	fabricClient.On("GetDefinition", mock.Anything, "ws-2", mock.Anything).Return(nil, domain.ErrRemoteOperationFailed)

	artifacts, _, _, _ := newTestArtifactService(t, fabricClient)
	svc := NewBulkService(artifacts)

	items := []domain.BatchEntry{
		{WorkspaceID: "ws-1", ArtifactID: "model-1", WorkspaceName: "A", ArtifactName: "a"},
		{WorkspaceID: "ws-2", ArtifactID: "model-2", WorkspaceName: "B", ArtifactName: "b"},
		{WorkspaceID: "ws-1", ArtifactID: "model-3", WorkspaceName: "A", ArtifactName: "c"},
		{WorkspaceID: "ws-2", ArtifactID: "model-4", WorkspaceName: "B", ArtifactName: "d"},
		{WorkspaceID: "ws-1", ArtifactID: "model-5", WorkspaceName: "A", ArtifactName: "e"},
	}

	summary := svc.RunBatch(context.Background(), items, domain.BatchOpDownload, BatchOptions{})

	assert.Equal(t, len(items), summary.Total)
	assert.Equal(t, summary.Total, summary.Successful+summary.Failed)
	assert.Equal(t, 3, summary.Successful)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Results, len(items))

	// Results sit at their input positions regardless of completion order.
	for i, item := range items {
		assert.Equal(t, item.ArtifactID, summary.Results[i].ArtifactID)
	}
	assert.Equal(t, "failed", summary.Results[1].Status)
	assert.NotEmpty(t, summary.Results[1].Error)
	assert.Equal(t, "success", summary.Results[0].Status)
}

func TestRunBatch_Empty(t *testing.T) {
	artifacts, _, _, _ := newTestArtifactService(t, new(testutil.MockFabricClient))
	svc := NewBulkService(artifacts)

	summary := svc.RunBatch(context.Background(), nil, domain.BatchOpDownload, BatchOptions{})
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
}

func TestRunBatch_CancelledContext(t *testing.T) {
	artifacts, _, _, _ := newTestArtifactService(t, new(testutil.MockFabricClient))
	svc := NewBulkService(artifacts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []domain.BatchEntry{
		{WorkspaceID: "ws-1", ArtifactID: "model-1"},
		{WorkspaceID: "ws-1", ArtifactID: "model-2"},
		{WorkspaceID: "ws-1", ArtifactID: "model-3"},
	}

	summary := svc.RunBatch(ctx, items, domain.BatchOpRevert, BatchOptions{})
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 0, summary.Successful)
	assert.Equal(t, 3, summary.Failed)
	for _, r := range summary.Results {
		assert.Equal(t, "failed", r.Status)
		assert.NotEmpty(t, r.Error)
	}
}

func TestRunBatch_BulkReplaceAggregatesCounts(t *testing.T) {
	fabricClient := new(testutil.MockFabricClient)
	def := testDefinition()
	def.Parts[1].Payload = b64("source = \"OldServer\"\n")
	fabricClient.On("GetDefinition", mock.Anything, mock.Anything, mock.Anything).Return(def, nil)

	artifacts, _, _, _ := newTestArtifactService(t, fabricClient)
	svc := NewBulkService(artifacts)

	downloads := []domain.BatchEntry{
		{WorkspaceID: "ws-1", ArtifactID: "model-1", WorkspaceName: "A", ArtifactName: "a"},
		{WorkspaceID: "ws-1", ArtifactID: "model-2", WorkspaceName: "A", ArtifactName: "b"},
	}
	dl := svc.RunBatch(context.Background(), downloads, domain.BatchOpDownload, BatchOptions{})
	require.Equal(t, 2, dl.Successful)

	summary := svc.RunBatch(context.Background(), downloads, domain.BatchOpReplace, BatchOptions{
		Mappings: []domain.Mapping{{Old: "OldServer", New: "NewServer"}},
	})

	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, map[string]int{"OldServer": 2}, summary.ReplacementsSummary)
	for _, r := range summary.Results {
		assert.Equal(t, 1, r.FilesUpdated)
	}
}
