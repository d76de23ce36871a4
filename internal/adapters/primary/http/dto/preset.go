package dto

import (
	"time"

	"fabric-artifact-manager/internal/core/domain"
)

type PresetRequest struct {
	Name     string           `json:"name" binding:"required"`
	Mappings []MappingRequest `json:"mappings" binding:"required,min=1"`
}

// PresetUpdateRequest is partial: an empty name keeps the existing one and
// nil mappings keep the stored list.
type PresetUpdateRequest struct {
	Name     string           `json:"name"`
	Mappings []MappingRequest `json:"mappings"`
}

type PresetResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Mappings  []domain.Mapping `json:"mappings"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func ToPresetResponse(p *domain.MappingPreset) PresetResponse {
	return PresetResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Mappings:  p.Mappings,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
