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

func TestMappingPresetService_Create(t *testing.T) {
	repo := new(testutil.MockPresetRepo)
	svc := NewMappingPresetService(repo)

	mappings := []domain.Mapping{{Old: " old.sql ", New: "new.sql"}}
	stored := &domain.MappingPreset{Name: "prod-to-dev", Mappings: []domain.Mapping{{Old: "old.sql", New: "new.sql"}}}

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MappingPreset")).Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(stored, nil)

	preset, err := svc.Create(context.Background(), "prod-to-dev", mappings)
	require.NoError(t, err)
	assert.Equal(t, "prod-to-dev", preset.Name)
	repo.AssertExpectations(t)
}

func TestMappingPresetService_Create_EmptyName(t *testing.T) {
	svc := NewMappingPresetService(new(testutil.MockPresetRepo))

	_, err := svc.Create(context.Background(), "   ", []domain.Mapping{{Old: "a", New: "b"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPresetName)
}

func TestMappingPresetService_Create_NameConflict(t *testing.T) {
	repo := new(testutil.MockPresetRepo)
	svc := NewMappingPresetService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MappingPreset")).Return(domain.ErrPresetNameConflict)

	_, err := svc.Create(context.Background(), "dup", []domain.Mapping{{Old: "a", New: "b"}})
	assert.ErrorIs(t, err, domain.ErrPresetNameConflict)
}

func TestCleanMappings(t *testing.T) {
	cleaned, err := CleanMappings([]domain.Mapping{
		{Old: " a ", New: " b "},
		{Old: "", New: "x"},
		{Old: "y", New: ""},
		{Old: "c", New: "d"},
	})
	require.NoError(t, err)
	// Order preserved, incomplete pairs dropped, values trimmed.
	assert.Equal(t, []domain.Mapping{{Old: "a", New: "b"}, {Old: "c", New: "d"}}, cleaned)

	_, err = CleanMappings([]domain.Mapping{{Old: "", New: ""}})
	assert.ErrorIs(t, err, domain.ErrNoMappings)

	_, err = CleanMappings(nil)
	assert.ErrorIs(t, err, domain.ErrNoMappings)
}
