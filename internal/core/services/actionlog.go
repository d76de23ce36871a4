package services

import (
	"context"

	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
)

// ActionLogService exposes the audit trail of completed artifact operations.
type ActionLogService struct {
	entries ports.ActionLogRepository
}

func NewActionLogService(entries ports.ActionLogRepository) *ActionLogService {
	return &ActionLogService{entries: entries}
}

func (s *ActionLogService) List(ctx context.Context, limit int) ([]*domain.ActionLogEntry, error) {
	return s.entries.List(ctx, limit)
}
