// Package auth supplies bearer tokens for vendor API calls.
package auth

import (
	"context"
	"errors"
	"sync"

	ports "fabric-artifact-manager/internal/core/ports/output"
)

var ErrNoToken = errors.New("no API token configured")

// StaticTokenSource hands out a token set through configuration. The token
// can be rotated at runtime without restarting.
type StaticTokenSource struct {
	mu    sync.RWMutex
	token string
}

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

var _ ports.TokenSource = (*StaticTokenSource)(nil)

func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Set replaces the stored token. An empty value is ignored so a settings
// update that omits the token keeps the existing one.
func (s *StaticTokenSource) Set(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}
