package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fabric-artifact-manager/internal/adapters/secondary/auth"
	"fabric-artifact-manager/internal/config"
	"fabric-artifact-manager/internal/core/domain"
	"fabric-artifact-manager/internal/core/services"
	"fabric-artifact-manager/internal/storage"
	"fabric-artifact-manager/internal/testutil"
)

type testEnv struct {
	router       *gin.Engine
	fabricClient *testutil.MockFabricClient
	powerbi      *testutil.MockPowerBIClient
	presetRepo   *testutil.MockPresetRepo
	store        *config.Store
	tokens       *auth.StaticTokenSource
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Storage: config.StorageConfig{
			DataFolder:           t.TempDir(),
			BackupFolder:         t.TempDir(),
			OutputNamingStrategy: "model_id",
			EnableAutoBackup:     true,
			BackupOnDownload:     true,
			BackupOnUpdate:       true,
			BackupRetentionDays:  30,
		},
		Vendor: config.VendorConfig{
			HTTPTimeoutSeconds:           30,
			OperationMaxRetries:          30,
			OperationRetryDelaySeconds:   5,
			RateLimitMaxRetries:          5,
			RateLimitInitialDelaySeconds: 2,
			RateLimitMaxDelaySeconds:     60,
			ParallelDownloadWorkers:      2,
			ParallelBulkWorkers:          3,
		},
		Logger: config.LoggerConfig{Level: "info", Format: "text"},
	}
	store, err := config.NewStore(&cfg, "")
	require.NoError(t, err)

	fabricClient := new(testutil.MockFabricClient)
	powerbiClient := new(testutil.MockPowerBIClient)
	presetRepo := new(testutil.MockPresetRepo)
	actionLog := &testutil.RecordingActionLog{}
	clock := testutil.NewFakeClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	tokens := auth.NewStaticTokenSource("boot-token")

	artifactSvc := services.NewArtifactService(store, fabricClient, storage.NewBackupManager(clock), actionLog, clock)
	h := New(
		store,
		tokens,
		artifactSvc,
		services.NewBulkService(artifactSvc),
		services.NewWorkspaceService(powerbiClient),
		services.NewGatewayService(powerbiClient),
		services.NewMappingPresetService(presetRepo),
		services.NewActionLogService(actionLog),
	)

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))

	return &testEnv{
		router:       router,
		fabricClient: fabricClient,
		powerbi:      powerbiClient,
		presetRepo:   presetRepo,
		store:        store,
		tokens:       tokens,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestGetSettings_TokenNotEchoed(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.Apply(config.Update{APIToken: ptr("super-secret")})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/v1/config", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["api_token_set"])
}

func TestUpdateSettings_RotatesAPIToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.tokens.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "boot-token", token)

	w := env.do(t, http.MethodPut, "/api/v1/config", map[string]any{"api_token": "rotated-token"})
	require.Equal(t, http.StatusOK, w.Code)

	// The shared token source must serve the new token immediately.
	token, err = env.tokens.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", token)

	// Updates that omit or blank the token keep the current one.
	w = env.do(t, http.MethodPut, "/api/v1/config", map[string]any{"api_token": "", "backup_retention_days": 45})
	require.Equal(t, http.StatusOK, w.Code)

	token, err = env.tokens.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", token)
}

func TestUpdateSettings_Validation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/v1/config", map[string]any{"backup_retention_days": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/config", map[string]any{"backup_retention_days": 60})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 60, env.store.Snapshot().Storage.BackupRetentionDays)
}

func TestListWorkspaces(t *testing.T) {
	env := newTestEnv(t)
	env.powerbi.On("ListWorkspaces", mock.Anything).Return([]domain.Workspace{{ID: "ws-1", Name: "Sales"}}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/workspaces", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Sales"`)
}

func TestDownloadModel_RemoteFailureMapsToBadGateway(t *testing.T) {
	env := newTestEnv(t)
	env.fabricClient.On("GetWorkspaceName", mock.Anything, "ws-1").Return("Sales", nil)
	env.fabricClient.On("GetSemanticModelName", mock.Anything, "ws-1", "model-1").Return("Revenue", nil)
	env.fabricClient.On("GetDefinition", mock.Anything, "ws-1", "model-1").Return(nil, domain.ErrRemoteOperationFailed)

	w := env.do(t, http.MethodPost, "/api/v1/workspaces/ws-1/semantic-models/model-1/download", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRevertModel_NoBackupIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/workspaces/ws-1/semantic-models/model-1/revert", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadModel_NotDownloadedIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/workspaces/ws-1/semantic-models/model-1/upload", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkReplace_RequiresMappings(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/semantic-models/bulk-replace", map[string]any{
		"items": []map[string]string{{"workspace_id": "ws-1", "dataset_id": "model-1"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportCSV(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "models.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("workspace_id,dataset_id,dataset_name\nws-1,model-1,Revenue\n,broken,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/semantic-models/import-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Entries   []domain.BatchEntry `json:"entries"`
		RowErrors []services.RowError `json:"row_errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, domain.BatchStatusMissing, resp.Entries[0].Status)
	require.Len(t, resp.RowErrors, 1)
	assert.Equal(t, 3, resp.RowErrors[0].Row)
}

func TestPresetNotFoundIs404(t *testing.T) {
	env := newTestEnv(t)
	env.presetRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil, domain.ErrPresetNotFound)

	w := env.do(t, http.MethodGet, "/api/v1/presets/6f1052e4-55c9-4d23-b2d6-1c2f9ad40e6f", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/presets/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateFolder(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/semantic-models/validate-folder", map[string]string{
		"folder_path": t.TempDir(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.MissingFiles)
}

func ptr[T any](v T) *T { return &v }
