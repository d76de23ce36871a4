package ports

import (
	"context"

	"github.com/google/uuid"

	"fabric-artifact-manager/internal/core/domain"
)

type MappingPresetRepository interface {
	Create(ctx context.Context, preset *domain.MappingPreset) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MappingPreset, error)
	List(ctx context.Context) ([]*domain.MappingPreset, error)
	Update(ctx context.Context, preset *domain.MappingPreset) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ActionLogRepository interface {
	Append(ctx context.Context, entry *domain.ActionLogEntry) error
	List(ctx context.Context, limit int) ([]*domain.ActionLogEntry, error)
}
