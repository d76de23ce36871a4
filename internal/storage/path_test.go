package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"fabric-artifact-manager/internal/core/domain"
)

func TestResolveArtifactPath_Deterministic(t *testing.T) {
	first, err := ResolveArtifactPath("/data", "ws-1", domain.ArtifactTypeSemanticModel, "model-1", "Sales Workspace", true)
	assert.NoError(t, err)
	second, err := ResolveArtifactPath("/data", "ws-1", domain.ArtifactTypeSemanticModel, "model-1", "Renamed Workspace", true)
	assert.NoError(t, err)

	// The display name must not affect the ID-keyed path.
	assert.Equal(t, first, second)
	assert.Equal(t, filepath.Join("/data", "ws-1", "semantic-models", "model-1"), first)
}

func TestResolveArtifactPath_LegacyNameLayout(t *testing.T) {
	path, err := ResolveArtifactPath("/data", "ws-1", domain.ArtifactTypeSemanticModel, "model-1", `Sales/Q1: "EMEA"`, false)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "Sales_Q1_ _EMEA_", "semantic-models", "model-1"), path)
}

func TestResolveArtifactPath_InvalidSegments(t *testing.T) {
	cases := []struct {
		name        string
		workspaceID string
		artifactID  string
		want        error
	}{
		{"empty workspace", "", "model-1", domain.ErrInvalidWorkspaceID},
		{"dotdot workspace", "..", "model-1", domain.ErrInvalidWorkspaceID},
		{"separator in workspace", "ws/1", "model-1", domain.ErrInvalidWorkspaceID},
		{"empty artifact", "ws-1", "", domain.ErrInvalidArtifactID},
		{"dot artifact", "ws-1", ".", domain.ErrInvalidArtifactID},
		{"backslash in artifact", "ws-1", `model\1`, domain.ErrInvalidArtifactID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveArtifactPath("/data", tc.workspaceID, domain.ArtifactTypeSemanticModel, tc.artifactID, "", true)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestResolveBackupPath_MirrorsLayout(t *testing.T) {
	path, err := ResolveBackupPath("/backups", "ws-1", domain.ArtifactTypeSemanticModel, "model-1")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/backups", "ws-1", "semantic-models", "model-1"), path)
}

func TestSanitizeFolderName(t *testing.T) {
	assert.Equal(t, "a_b_c_d_e_f_g_h_i", SanitizeFolderName(`a<b>c:d"e/f\g|h?i`))
	assert.Equal(t, "plain name", SanitizeFolderName("plain name"))
}
