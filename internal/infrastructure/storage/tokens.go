package storage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

// TokenSource reads the credential token from a client-local storage.
type TokenSource struct {
	ls  ports.LocalStorage
	log zerolog.Logger
}

var _ ports.TokenSource = (*TokenSource)(nil)

func NewTokenSource(ls ports.LocalStorage, log zerolog.Logger) *TokenSource {
	return &TokenSource{ls: ls, log: log}
}

// Token returns the stored token. Read failures count as no token.
func (t *TokenSource) Token(ctx context.Context) (string, bool) {
	v, ok, err := t.ls.Get(ctx, domain.TokenKey)
	if err != nil {
		t.log.Warn().Err(err).Msg("read token failed")
		return "", false
	}
	return v, ok && v != ""
}
