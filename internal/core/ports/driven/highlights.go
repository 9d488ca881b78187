package driven

import (
	"context"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

// HighlightsAPI is the remote highlights service.
//
// All calls authenticate with a bearer token derived from the api key
// and the session secret; implementations establish the secret lazily
// via the connect handshake when no cached secret is held. Timeouts and
// non-200 responses surface as errors wrapping domain.ErrConnect or
// domain.ErrUnauthorized - the caller aborts the cycle, it does not
// retry per-record.
type HighlightsAPI interface {
	// Connect performs the session handshake using the api key alone
	// and returns the session secret for subsequent calls.
	Connect(ctx context.Context) (string, error)

	// FetchSources returns all sources with their child quotes, in
	// service order.
	FetchSources(ctx context.Context) ([]domain.Source, error)

	// FetchTags returns all tags.
	FetchTags(ctx context.Context) ([]domain.Tag, error)

	// FetchDailyReflection returns today's reflection, or nil when the
	// service has none to offer (not an error).
	FetchDailyReflection(ctx context.Context) (*domain.DailyReflection, error)
}

// CredentialsProvider supplies the api key and the cached session
// secret, and persists a freshly-established secret.
type CredentialsProvider interface {
	// APIKey returns the configured api key, empty when unset.
	APIKey() string

	// Secret returns the cached session secret, empty when no session
	// has been established.
	Secret() string

	// SaveSecret persists a newly established session secret.
	SaveSecret(secret string) error
}
