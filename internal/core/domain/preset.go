package domain

import (
	"time"

	"github.com/google/uuid"
)

// MappingPreset is a named, ordered set of keyword mappings persisted
// server-side so presets survive across clients and sessions.
type MappingPreset struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Mappings  []Mapping `json:"mappings"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActionLogEntry records one completed artifact operation for the audit trail.
type ActionLogEntry struct {
	ID          uuid.UUID `json:"id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Action      string    `json:"action"`
	WorkspaceID string    `json:"workspace_id"`
	ArtifactID  string    `json:"artifact_id"`
	Status      string    `json:"status"`
	Detail      string    `json:"detail,omitempty"`
}
