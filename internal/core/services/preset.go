package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
)

// MappingPresetService manages named keyword-mapping presets. Mapping order
// is preserved end to end: presets serialize as lists, and incomplete pairs
// are rejected at this boundary so the keyword engine never sees them.
type MappingPresetService struct {
	presets ports.MappingPresetRepository
}

func NewMappingPresetService(presets ports.MappingPresetRepository) *MappingPresetService {
	return &MappingPresetService{presets: presets}
}

func (s *MappingPresetService) Create(ctx context.Context, name string, mappings []domain.Mapping) (*domain.MappingPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidPresetName
	}
	cleaned, err := CleanMappings(mappings)
	if err != nil {
		return nil, err
	}

	preset := &domain.MappingPreset{
		ID:       uuid.New(),
		Name:     name,
		Mappings: cleaned,
	}
	if err := s.presets.Create(ctx, preset); err != nil {
		return nil, err
	}
	return s.presets.GetByID(ctx, preset.ID)
}

func (s *MappingPresetService) Get(ctx context.Context, id uuid.UUID) (*domain.MappingPreset, error) {
	return s.presets.GetByID(ctx, id)
}

func (s *MappingPresetService) List(ctx context.Context) ([]*domain.MappingPreset, error) {
	return s.presets.List(ctx)
}

func (s *MappingPresetService) Update(ctx context.Context, id uuid.UUID, name string, mappings []domain.Mapping) (*domain.MappingPreset, error) {
	preset, err := s.presets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		preset.Name = name
	}
	if mappings != nil {
		cleaned, err := CleanMappings(mappings)
		if err != nil {
			return nil, err
		}
		preset.Mappings = cleaned
	}

	if err := s.presets.Update(ctx, preset); err != nil {
		return nil, err
	}
	return s.presets.GetByID(ctx, id)
}

func (s *MappingPresetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.presets.Delete(ctx, id)
}

// CleanMappings drops pairs where either side is blank and rejects inputs
// that leave nothing to apply. Order is preserved.
func CleanMappings(mappings []domain.Mapping) ([]domain.Mapping, error) {
	cleaned := make([]domain.Mapping, 0, len(mappings))
	for _, m := range mappings {
		m.Old = strings.TrimSpace(m.Old)
		m.New = strings.TrimSpace(m.New)
		if m.Old == "" || m.New == "" {
			continue
		}
		cleaned = append(cleaned, m)
	}
	if len(cleaned) == 0 {
		return nil, domain.ErrNoMappings
	}
	return cleaned, nil
}
