package auth

import (
	"context"
	"errors"

	"github.com/mkovac/erpsync/internal/domain"
)

var ErrNoToken = errors.New("no api token configured")

// Static serves one long-lived API token from configuration. The accounting
// API uses non-expiring org tokens, so nothing here ever refreshes.
type Static struct {
	token string
}

func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) Token(_ context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

var _ domain.TokenSource = (*Static)(nil)
