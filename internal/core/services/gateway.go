package services

import (
	"context"
	"strings"

	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
)

// GatewayService manages gateway datasource credentials and user access.
type GatewayService struct {
	powerbi ports.PowerBIClient
}

func NewGatewayService(powerbi ports.PowerBIClient) *GatewayService {
	return &GatewayService{powerbi: powerbi}
}

func (s *GatewayService) ListGateways(ctx context.Context) ([]domain.Gateway, error) {
	return s.powerbi.ListGateways(ctx)
}

func (s *GatewayService) ListDatasources(ctx context.Context, gatewayID string) ([]domain.GatewayDatasource, error) {
	return s.powerbi.ListDatasources(ctx, gatewayID)
}

func (s *GatewayService) ListDatasourceUsers(ctx context.Context, gatewayID, datasourceID string) ([]domain.DatasourceUser, error) {
	return s.powerbi.ListDatasourceUsers(ctx, gatewayID, datasourceID)
}

func (s *GatewayService) UpdateDatasourceCredentials(ctx context.Context, gatewayID, datasourceID string, creds domain.CredentialDetails) error {
	return s.powerbi.UpdateDatasourceCredentials(ctx, gatewayID, datasourceID, creds)
}

func (s *GatewayService) AddDatasourceUser(ctx context.Context, gatewayID, datasourceID, email, accessRight string) error {
	if strings.TrimSpace(accessRight) == "" {
		accessRight = "Read"
	}
	return s.powerbi.AddDatasourceUser(ctx, gatewayID, datasourceID, email, accessRight)
}

func (s *GatewayService) RemoveDatasourceUser(ctx context.Context, gatewayID, datasourceID, email string) error {
	return s.powerbi.RemoveDatasourceUser(ctx, gatewayID, datasourceID, email)
}
