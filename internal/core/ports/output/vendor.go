package ports

import (
	"context"

	"fabric-artifact-manager/internal/core/domain"
)

// TokenSource supplies a bearer token for vendor API calls. Token acquisition
// (OAuth, service principal) happens outside this system.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// FabricClient is the definition-level vendor surface: fetching and updating
// artifact definitions plus the display-name lookups used for metadata.
type FabricClient interface {
	GetWorkspaceName(ctx context.Context, workspaceID string) (string, error)
	GetSemanticModelName(ctx context.Context, workspaceID, modelID string) (string, error)
	GetDefinition(ctx context.Context, workspaceID, modelID string) (*domain.Definition, error)
	UpdateDefinition(ctx context.Context, workspaceID, modelID string, def *domain.Definition) error
}

// PowerBIClient is the workspace/dataset/report/gateway vendor surface.
type PowerBIClient interface {
	ListWorkspaces(ctx context.Context) ([]domain.Workspace, error)
	ListDatasets(ctx context.Context, workspaceID string) ([]domain.Dataset, error)
	ListReports(ctx context.Context, workspaceID string) ([]domain.Report, error)

	ListGateways(ctx context.Context) ([]domain.Gateway, error)
	ListDatasources(ctx context.Context, gatewayID string) ([]domain.GatewayDatasource, error)
	ListDatasourceUsers(ctx context.Context, gatewayID, datasourceID string) ([]domain.DatasourceUser, error)
	UpdateDatasourceCredentials(ctx context.Context, gatewayID, datasourceID string, creds domain.CredentialDetails) error
	AddDatasourceUser(ctx context.Context, gatewayID, datasourceID, email, accessRight string) error
	RemoveDatasourceUser(ctx context.Context, gatewayID, datasourceID, email string) error
}
