package services

import (
	"context"

	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
)

// WorkspaceService exposes the read-only vendor inventory: workspaces and
// their datasets and reports.
type WorkspaceService struct {
	powerbi ports.PowerBIClient
}

func NewWorkspaceService(powerbi ports.PowerBIClient) *WorkspaceService {
	return &WorkspaceService{powerbi: powerbi}
}

func (s *WorkspaceService) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	return s.powerbi.ListWorkspaces(ctx)
}

func (s *WorkspaceService) ListDatasets(ctx context.Context, workspaceID string) ([]domain.Dataset, error) {
	if workspaceID == "" {
		return nil, domain.ErrInvalidWorkspaceID
	}
	return s.powerbi.ListDatasets(ctx, workspaceID)
}

func (s *WorkspaceService) ListReports(ctx context.Context, workspaceID string) ([]domain.Report, error) {
	if workspaceID == "" {
		return nil, domain.ErrInvalidWorkspaceID
	}
	return s.powerbi.ListReports(ctx, workspaceID)
}
