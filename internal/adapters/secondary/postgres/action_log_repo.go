package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
)

type actionLogRepo struct {
	pool *pgxpool.Pool
}

// NewActionLogRepository creates a new action log repository
func NewActionLogRepository(pool *pgxpool.Pool) ports.ActionLogRepository {
	return &actionLogRepo{pool: pool}
}

func (r *actionLogRepo) Append(ctx context.Context, entry *domain.ActionLogEntry) error {
	query := `
		INSERT INTO action_log (id, occurred_at, action, workspace_id, artifact_id, status, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.OccurredAt,
		entry.Action,
		entry.WorkspaceID,
		entry.ArtifactID,
		entry.Status,
		entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert action_log: %w", err)
	}
	return nil
}

func (r *actionLogRepo) List(ctx context.Context, limit int) ([]*domain.ActionLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, occurred_at, action, workspace_id, artifact_id, status, detail
		FROM action_log
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query action_log: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ActionLogEntry
	for rows.Next() {
		var entry domain.ActionLogEntry
		err := rows.Scan(
			&entry.ID, &entry.OccurredAt, &entry.Action,
			&entry.WorkspaceID, &entry.ArtifactID, &entry.Status, &entry.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan action_log: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
