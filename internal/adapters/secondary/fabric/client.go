// Package fabric is the REST adapter for the Fabric definition API:
// definition download/upload with long-running-operation polling, plus the
// display-name lookups the metadata layer needs.
package fabric

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

const operationIDHeader = "x-ms-operation-id"

type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource

	operationMaxRetries int
	operationRetryDelay time.Duration
	rateLimitMaxRetries int
	rateLimitInitial    time.Duration
	rateLimitMax        time.Duration
}

func NewClient(cfg config.VendorConfig, tokens ports.TokenSource) *Client {
	return &Client{
		baseURL:             strings.TrimRight(cfg.FabricAPIBase, "/"),
		http:                &http.Client{Timeout: cfg.HTTPTimeout()},
		tokens:              tokens,
		operationMaxRetries: cfg.OperationMaxRetries,
		operationRetryDelay: time.Duration(cfg.OperationRetryDelaySeconds) * time.Second,
		rateLimitMaxRetries: cfg.RateLimitMaxRetries,
		rateLimitInitial:    time.Duration(cfg.RateLimitInitialDelaySeconds) * time.Second,
		rateLimitMax:        time.Duration(cfg.RateLimitMaxDelaySeconds) * time.Second,
	}
}

var _ ports.FabricClient = (*Client)(nil)

func (c *Client) GetWorkspaceName(ctx context.Context, workspaceID string) (string, error) {
	var payload struct {
		DisplayName string `json:"displayName"`
	}
	resp, err := c.do(ctx, http.MethodGet, "/workspaces/"+workspaceID, nil)
	if err != nil {
		return "", err
	}
	if err := decodeBody(resp, &payload); err != nil {
		return "", err
	}
	return payload.DisplayName, nil
}

func (c *Client) GetSemanticModelName(ctx context.Context, workspaceID, modelID string) (string, error) {
	var payload struct {
		DisplayName string `json:"displayName"`
	}
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/workspaces/%s/semanticModels/%s", workspaceID, modelID), nil)
	if err != nil {
		return "", err
	}
	if err := decodeBody(resp, &payload); err != nil {
		return "", err
	}
	return payload.DisplayName, nil
}

// GetDefinition fetches an artifact definition. The vendor usually answers
// 202 and finishes asynchronously; the operation is then polled until it
// succeeds and its result fetched separately.
func (c *Client) GetDefinition(ctx context.Context, workspaceID, modelID string) (*domain.Definition, error) {
	path := fmt.Sprintf("/workspaces/%s/semanticModels/%s/getDefinition", workspaceID, modelID)
	resp, err := c.do(ctx, http.MethodPost, path, map[string]any{})
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if resp.StatusCode == http.StatusAccepted {
		operationID := resp.Header.Get(operationIDHeader)
		drainBody(resp)
		if operationID == "" {
			return nil, fmt.Errorf("%w: no operation ID in 202 response", domain.ErrRemoteOperationFailed)
		}
		raw, err = c.awaitOperationResult(ctx, operationID)
		if err != nil {
			return nil, err
		}
	} else {
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		raw = body
	}

	return extractDefinition(raw)
}

// UpdateDefinition uploads a definition built from the local folder. Polls
// the long-running operation to completion; the update has no result body.
func (c *Client) UpdateDefinition(ctx context.Context, workspaceID, modelID string, def *domain.Definition) error {
	path := fmt.Sprintf("/workspaces/%s/semanticModels/%s/updateDefinition", workspaceID, modelID)
	payload := map[string]any{
		"definition":     def,
		"updateMetadata": false,
	}

	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusAccepted {
		operationID := resp.Header.Get(operationIDHeader)
		drainBody(resp)
		if operationID == "" {
			return fmt.Errorf("%w: no operation ID in 202 response", domain.ErrRemoteOperationFailed)
		}
		return c.awaitOperation(ctx, operationID)
	}

	drainBody(resp)
	return nil
}

type operationStatus struct {
	Status string          `json:"status"`
	Error  json.RawMessage `json:"error"`
}

// awaitOperation polls an operation until it reaches a terminal state or the
// configured attempt budget runs out.
func (c *Client) awaitOperation(ctx context.Context, operationID string) error {
	for attempt := 0; attempt < c.operationMaxRetries; attempt++ {
		resp, err := c.do(ctx, http.MethodGet, "/operations/"+operationID, nil)
		if err != nil {
			return err
		}
		var status operationStatus
		if err := decodeBody(resp, &status); err != nil {
			return err
		}

		switch strings.ToLower(status.Status) {
		case "succeeded":
			return nil
		case "failed":
			return fmt.Errorf("%w: %s", domain.ErrRemoteOperationFailed, string(status.Error))
		}

		if err := sleepCtx(ctx, c.operationRetryDelay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: operation %s still running after %d attempts",
		domain.ErrOperationTimedOut, operationID, c.operationMaxRetries)
}

// awaitOperationResult polls to completion and then fetches the operation's
// result. A 400 on the result endpoint means the operation has no result
// body; the status payload is returned instead.
func (c *Client) awaitOperationResult(ctx context.Context, operationID string) (json.RawMessage, error) {
	if err := c.awaitOperation(ctx, operationID); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/operations/"+operationID+"/result", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteOperationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusBadRequest:
		// OperationHasNoResult
		statusResp, err := c.do(ctx, http.MethodGet, "/operations/"+operationID, nil)
		if err != nil {
			return nil, err
		}
		defer statusResp.Body.Close()
		return io.ReadAll(statusResp.Body)
	default:
		return nil, fmt.Errorf("%w: fetch operation result: %s", domain.ErrRemoteOperationFailed, strings.TrimSpace(string(body)))
	}
}

// do issues one authorized request, retrying rate-limited responses with a
// capped exponential backoff. Responses <400 are returned with their body
// open; error responses are drained and surfaced with the upstream message.
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

// extractDefinition accepts either {"definition": {...}} or a bare
// {"format":..., "parts":[...]} payload.
func extractDefinition(raw json.RawMessage) (*domain.Definition, error) {
	var wrapped struct {
		Definition *domain.Definition `json:"definition"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Definition != nil && len(wrapped.Definition.Parts) > 0 {
		return wrapped.Definition, nil
	}

	var direct domain.Definition
	if err := json.Unmarshal(raw, &direct); err == nil && len(direct.Parts) > 0 {
		return &direct, nil
	}

	return nil, domain.ErrDefinitionMissing
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

func decodeBody(resp *http.Response, v any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

func drainBody(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
