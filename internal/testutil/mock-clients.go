package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fabric-artifact-manager/internal/core/domain"
)

// MockFabricClient is a mock of FabricClient.
type MockFabricClient struct {
	mock.Mock
}

func (m *MockFabricClient) GetWorkspaceName(ctx context.Context, workspaceID string) (string, error) {
	args := m.Called(ctx, workspaceID)
	return args.String(0), args.Error(1)
}

func (m *MockFabricClient) GetSemanticModelName(ctx context.Context, workspaceID, modelID string) (string, error) {
	args := m.Called(ctx, workspaceID, modelID)
	return args.String(0), args.Error(1)
}

func (m *MockFabricClient) GetDefinition(ctx context.Context, workspaceID, modelID string) (*domain.Definition, error) {
	args := m.Called(ctx, workspaceID, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Definition), args.Error(1)
}

func (m *MockFabricClient) UpdateDefinition(ctx context.Context, workspaceID, modelID string, def *domain.Definition) error {
	args := m.Called(ctx, workspaceID, modelID, def)
	return args.Error(0)
}

// MockPowerBIClient is a mock of PowerBIClient.
type MockPowerBIClient struct {
	mock.Mock
}

func (m *MockPowerBIClient) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockPowerBIClient) ListDatasets(ctx context.Context, workspaceID string) ([]domain.Dataset, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dataset), args.Error(1)
}

func (m *MockPowerBIClient) ListReports(ctx context.Context, workspaceID string) ([]domain.Report, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockPowerBIClient) ListGateways(ctx context.Context) ([]domain.Gateway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Gateway), args.Error(1)
}

func (m *MockPowerBIClient) ListDatasources(ctx context.Context, gatewayID string) ([]domain.GatewayDatasource, error) {
	args := m.Called(ctx, gatewayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GatewayDatasource), args.Error(1)
}

func (m *MockPowerBIClient) ListDatasourceUsers(ctx context.Context, gatewayID, datasourceID string) ([]domain.DatasourceUser, error) {
	args := m.Called(ctx, gatewayID, datasourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DatasourceUser), args.Error(1)
}

func (m *MockPowerBIClient) UpdateDatasourceCredentials(ctx context.Context, gatewayID, datasourceID string, creds domain.CredentialDetails) error {
	args := m.Called(ctx, gatewayID, datasourceID, creds)
	return args.Error(0)
}

func (m *MockPowerBIClient) AddDatasourceUser(ctx context.Context, gatewayID, datasourceID, email, accessRight string) error {
	args := m.Called(ctx, gatewayID, datasourceID, email, accessRight)
	return args.Error(0)
}

func (m *MockPowerBIClient) RemoveDatasourceUser(ctx context.Context, gatewayID, datasourceID, email string) error {
	args := m.Called(ctx, gatewayID, datasourceID, email)
	return args.Error(0)
}

// MockPresetRepo is a mock of MappingPresetRepository.
type MockPresetRepo struct {
	mock.Mock
}

func (m *MockPresetRepo) Create(ctx context.Context, preset *domain.MappingPreset) error {
	args := m.Called(ctx, preset)
	return args.Error(0)
}

func (m *MockPresetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MappingPreset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MappingPreset), args.Error(1)
}

func (m *MockPresetRepo) List(ctx context.Context) ([]*domain.MappingPreset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MappingPreset), args.Error(1)
}

func (m *MockPresetRepo) Update(ctx context.Context, preset *domain.MappingPreset) error {
	args := m.Called(ctx, preset)
	return args.Error(0)
}

func (m *MockPresetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RecordingActionLog collects appended entries in memory; List returns them
// newest first like the real repository.
type RecordingActionLog struct {
	mu      sync.Mutex
	Entries []*domain.ActionLogEntry
}

func (r *RecordingActionLog) Append(_ context.Context, entry *domain.ActionLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, entry)
	return nil
}

func (r *RecordingActionLog) List(_ context.Context, limit int) ([]*domain.ActionLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ActionLogEntry, 0, len(r.Entries))
	for i := len(r.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.Entries[i])
	}
	return out, nil
}

// FakeClock returns a fixed instant, advanced manually by tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
