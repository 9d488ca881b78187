package api

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
)

// connectFunc performs the session handshake and returns a fresh secret.
type connectFunc func(ctx context.Context) (string, error)

// sessionTokenSource adapts the api-key/session-secret credential pair
// to oauth2.TokenSource. The bearer token is "<apiKey>~~~<secret>"; when
// no secret is cached the source runs the connect handshake once and
// persists the result through the credentials provider.
type sessionTokenSource struct {
	creds   driven.CredentialsProvider
	connect connectFunc

	mu sync.Mutex
}

// NewTokenSource creates an oauth2.TokenSource over the credential pair.
// The returned source is safe for concurrent use.
func NewTokenSource(creds driven.CredentialsProvider, connect connectFunc) oauth2.TokenSource {
	return &sessionTokenSource{creds: creds, connect: connect}
}

// Token implements oauth2.TokenSource.
func (t *sessionTokenSource) Token() (*oauth2.Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := t.creds.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: api key not configured", domain.ErrUnauthorized)
	}

	secret := t.creds.Secret()
	if secret == "" {
		fresh, err := t.connect(context.Background())
		if err != nil {
			return nil, fmt.Errorf("connect handshake: %w", err)
		}
		if err := t.creds.SaveSecret(fresh); err != nil {
			return nil, fmt.Errorf("persist session secret: %w", err)
		}
		secret = fresh
	}

	return &oauth2.Token{
		AccessToken: key + "~~~" + secret,
		TokenType:   "Bearer",
	}, nil
}
