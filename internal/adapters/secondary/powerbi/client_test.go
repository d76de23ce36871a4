package powerbi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabric-artifact-manager/internal/config"
	"fabric-artifact-manager/internal/core/domain"
)

type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.VendorConfig{
		PowerBIAPIBase:               srv.URL,
		HTTPTimeoutSeconds:           5,
		RateLimitMaxRetries:          1,
		RateLimitInitialDelaySeconds: 1,
		RateLimitMaxDelaySeconds:     1,
	}, staticToken("test-token"))
}

func TestListWorkspaces_UnwrapsValueEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]string{
				{"id": "ws-1", "name": "Sales", "type": "Workspace"},
				{"id": "ws-2", "name": "Finance"},
			},
		})
	}))
	defer srv.Close()

	workspaces, err := newTestClient(srv).ListWorkspaces(context.Background())
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	assert.Equal(t, domain.Workspace{ID: "ws-1", Name: "Sales", Type: "Workspace"}, workspaces[0])
}

func TestListDatasets_EmptyValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []any{}})
	}))
	defer srv.Close()

	datasets, err := newTestClient(srv).ListDatasets(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Empty(t, datasets)
}

func TestListDatasources_NameFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{"id": "ds-1", "datasourceName": "Primary SQL", "datasourceType": "Sql"},
				{"id": "ds-2", "name": "Legacy Named", "datasourceType": "Sql"},
			},
		})
	}))
	defer srv.Close()

	datasources, err := newTestClient(srv).ListDatasources(context.Background(), "gw-1")
	require.NoError(t, err)
	require.Len(t, datasources, 2)
	assert.Equal(t, "Primary SQL", datasources[0].Name)
	assert.Equal(t, "Legacy Named", datasources[1].Name)
	assert.Equal(t, "gw-1", datasources[0].GatewayID)
}

func TestUpdateDatasourceCredentials(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/gateways/gw-1/datasources/ds-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv).UpdateDatasourceCredentials(context.Background(), "gw-1", "ds-1", domain.CredentialDetails{
		CredentialType: "Basic",
		Credentials:    `{"username":"u","password":"p"}`,
	})
	require.NoError(t, err)
	assert.NotNil(t, gotBody["credentialDetails"])
}

func TestErrorStatusSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"GatewayNotFound"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListDatasources(context.Background(), "gw-missing")
	assert.ErrorIs(t, err, domain.ErrRemoteOperationFailed)
	assert.Contains(t, err.Error(), "GatewayNotFound")
}
