package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
)

const uniqueViolation = "23505"

type mappingPresetRepo struct {
	pool *pgxpool.Pool
}

// NewMappingPresetRepository creates a new mapping preset repository
func NewMappingPresetRepository(pool *pgxpool.Pool) ports.MappingPresetRepository {
	return &mappingPresetRepo{pool: pool}
}

// ============================================================================
// Mapping Preset CRUD
// ============================================================================

func (r *mappingPresetRepo) Create(ctx context.Context, preset *domain.MappingPreset) error {
	// Mappings are stored as a jsonb array; order inside the array is the
	// replacement precedence order.
	mappings, err := json.Marshal(preset.Mappings)
	if err != nil {
		return fmt.Errorf("marshal preset mappings: %w", err)
	}

	query := `
		INSERT INTO mapping_preset (id, name, mappings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		preset.ID,
		preset.Name,
		mappings,
		preset.CreatedAt,
		preset.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrPresetNameConflict
		}
		return fmt.Errorf("insert mapping_preset: %w", err)
	}
	return nil
}

func (r *mappingPresetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MappingPreset, error) {
	query := `
		SELECT id, name, mappings, created_at, updated_at
		FROM mapping_preset
		WHERE id = $1
	`
	preset, err := scanPreset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPresetNotFound
		}
		return nil, fmt.Errorf("get mapping_preset by id: %w", err)
	}
	return preset, nil
}

func (r *mappingPresetRepo) List(ctx context.Context) ([]*domain.MappingPreset, error) {
	query := `
		SELECT id, name, mappings, created_at, updated_at
		FROM mapping_preset
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query mapping_presets: %w", err)
	}
	defer rows.Close()

	var presets []*domain.MappingPreset
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mapping_preset: %w", err)
		}
		presets = append(presets, preset)
	}
	return presets, rows.Err()
}

func (r *mappingPresetRepo) Update(ctx context.Context, preset *domain.MappingPreset) error {
	mappings, err := json.Marshal(preset.Mappings)
	if err != nil {
		return fmt.Errorf("marshal preset mappings: %w", err)
	}

	query := `
		UPDATE mapping_preset
		SET name = $1, mappings = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.pool.Exec(ctx, query, preset.Name, mappings, preset.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrPresetNameConflict
		}
		return fmt.Errorf("update mapping_preset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPresetNotFound
	}
	return nil
}

func (r *mappingPresetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM mapping_preset WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mapping_preset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPresetNotFound
	}
	return nil
}

// ============================================================================
// Scan helpers
// ============================================================================

func scanPreset(row pgx.Row) (*domain.MappingPreset, error) {
	var preset domain.MappingPreset
	var mappings []byte

	err := row.Scan(&preset.ID, &preset.Name, &mappings, &preset.CreatedAt, &preset.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mappings, &preset.Mappings); err != nil {
		return nil, fmt.Errorf("decode preset mappings: %w", err)
	}
	return &preset, nil
}
