// Package powerbi is the REST adapter for the workspace, dataset, report and
// gateway surface of the Power BI API.
package powerbi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/config"
	"fabric-artifact-manager/internal/core/domain"
	ports "fabric-artifact-manager/internal/core/ports/output"
)

type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource

	rateLimitMaxRetries int
	rateLimitInitial    time.Duration
	rateLimitMax        time.Duration
}

func NewClient(cfg config.VendorConfig, tokens ports.TokenSource) *Client {
	return &Client{
		baseURL:             strings.TrimRight(cfg.PowerBIAPIBase, "/"),
		http:                &http.Client{Timeout: cfg.HTTPTimeout()},
		tokens:              tokens,
		rateLimitMaxRetries: cfg.RateLimitMaxRetries,
		rateLimitInitial:    time.Duration(cfg.RateLimitInitialDelaySeconds) * time.Second,
		rateLimitMax:        time.Duration(cfg.RateLimitMaxDelaySeconds) * time.Second,
	}
}

var _ ports.PowerBIClient = (*Client)(nil)

// valueEnvelope is the standard list response shape: {"value": [...]}.
type valueEnvelope struct {
	Value json.RawMessage `json:"value"`
}

func (c *Client) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	var rows []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := c.getList(ctx, "/groups", &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Workspace, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Workspace{ID: r.ID, Name: r.Name, Type: r.Type})
	}
	return out, nil
}

func (c *Client) ListDatasets(ctx context.Context, workspaceID string) ([]domain.Dataset, error) {
	var rows []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ConfiguredBy string `json:"configuredBy"`
	}
	if err := c.getList(ctx, "/groups/"+workspaceID+"/datasets", &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Dataset, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Dataset{
			ID:           r.ID,
			Name:         r.Name,
			WorkspaceID:  workspaceID,
			ConfiguredBy: r.ConfiguredBy,
		})
	}
	return out, nil
}

func (c *Client) ListReports(ctx context.Context, workspaceID string) ([]domain.Report, error) {
	var rows []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		DatasetID string `json:"datasetId"`
	}
	if err := c.getList(ctx, "/groups/"+workspaceID+"/reports", &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Report, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Report{
			ID:          r.ID,
			Name:        r.Name,
			WorkspaceID: workspaceID,
			DatasetID:   r.DatasetID,
		})
	}
	return out, nil
}

func (c *Client) ListGateways(ctx context.Context) ([]domain.Gateway, error) {
	var rows []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := c.getList(ctx, "/gateways", &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Gateway, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Gateway{ID: r.ID, Name: r.Name, Type: r.Type})
	}
	return out, nil
}

func (c *Client) ListDatasources(ctx context.Context, gatewayID string) ([]domain.GatewayDatasource, error) {
	// Field names for datasources vary between API versions; the name is
	// resolved across the known variants in order.
	var rows []struct {
		ID                string          `json:"id"`
		DatasourceName    string          `json:"datasourceName"`
		Name              string          `json:"name"`
		DatasourceType    string          `json:"datasourceType"`
		ConnectionDetails json.RawMessage `json:"connectionDetails"`
		CredentialType    string          `json:"credentialType"`
	}
	if err := c.getList(ctx, "/gateways/"+gatewayID+"/datasources", &rows); err != nil {
		return nil, err
	}
	out := make([]domain.GatewayDatasource, 0, len(rows))
	for _, r := range rows {
		name := r.DatasourceName
		if name == "" {
			name = r.Name
		}
		out = append(out, domain.GatewayDatasource{
			ID:               r.ID,
			GatewayID:        gatewayID,
			Name:             name,
			DatasourceType:   r.DatasourceType,
			ConnectionDetail: string(r.ConnectionDetails),
			CredentialType:   r.CredentialType,
		})
	}
	return out, nil
}

func (c *Client) ListDatasourceUsers(ctx context.Context, gatewayID, datasourceID string) ([]domain.DatasourceUser, error) {
	var rows []struct {
		EmailAddress          string `json:"emailAddress"`
		DatasourceAccessRight string `json:"datasourceAccessRight"`
		PrincipalType         string `json:"principalType"`
		DisplayName           string `json:"displayName"`
	}
	path := fmt.Sprintf("/gateways/%s/datasources/%s/users", gatewayID, datasourceID)
	if err := c.getList(ctx, path, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.DatasourceUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DatasourceUser{
			EmailAddress:  r.EmailAddress,
			AccessRight:   r.DatasourceAccessRight,
			PrincipalType: r.PrincipalType,
			DisplayName:   r.DisplayName,
		})
	}
	return out, nil
}

func (c *Client) UpdateDatasourceCredentials(ctx context.Context, gatewayID, datasourceID string, creds domain.CredentialDetails) error {
	path := fmt.Sprintf("/gateways/%s/datasources/%s", gatewayID, datasourceID)
	payload := map[string]any{"credentialDetails": creds}
	resp, err := c.do(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return err
	}
	drainBody(resp)
	return nil
}

func (c *Client) AddDatasourceUser(ctx context.Context, gatewayID, datasourceID, email, accessRight string) error {
	path := fmt.Sprintf("/gateways/%s/datasources/%s/users", gatewayID, datasourceID)
	payload := map[string]any{
		"emailAddress":          email,
		"datasourceAccessRight": accessRight,
	}
	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	drainBody(resp)
	return nil
}

func (c *Client) RemoveDatasourceUser(ctx context.Context, gatewayID, datasourceID, email string) error {
	path := fmt.Sprintf("/gateways/%s/datasources/%s/users/%s", gatewayID, datasourceID, email)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	drainBody(resp)
	return nil
}

func (c *Client) getList(ctx context.Context, path string, rows any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope valueEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decode %s: %s", domain.ErrRemoteOperationFailed, path, err)
	}
	if envelope.Value == nil {
		return nil
	}
	return json.Unmarshal(envelope.Value, rows)
}

// do issues one authorized request with the same rate-limit backoff policy
// as the definition client.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	delay := c.rateLimitInitial
	for attempt := 0; ; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrRemoteOperationFailed, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			drainBody(resp)
			if attempt >= c.rateLimitMaxRetries {
				return nil, fmt.Errorf("%w: rate limited after %d retries", domain.ErrRemoteOperationFailed, attempt)
			}
			wait := retryAfter(resp, delay)
			log.WithFields(log.Fields{"path": path, "wait": wait.String()}).Debug("rate limited, backing off")
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			delay *= 2
			if delay > c.rateLimitMax {
				delay = c.rateLimitMax
			}
			continue
		}

		if resp.StatusCode >= 400 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s %s: %d %s",
				domain.ErrRemoteOperationFailed, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
		}

		return resp, nil
	}
}

func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drainBody(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
