// Package api implements driven.HighlightsAPI against the remote
// highlights service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.HighlightsAPI = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.margin.app/v1"

	// DefaultTimeout bounds the data endpoints.
	DefaultTimeout = 30 * time.Second

	// ConnectTimeout bounds the session handshake.
	ConnectTimeout = 10 * time.Second

	// requestRate throttles outgoing calls (per second).
	requestRate = 4
)

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the API endpoint root (default: DefaultBaseURL).
	BaseURL string

	// Credentials supplies the api key and cached session secret.
	Credentials driven.CredentialsProvider

	// Timeout is the data request timeout (default: 30s).
	Timeout time.Duration
}

// Client talks to the highlights service. Authentication is handled by
// an oauth2 token source that lazily establishes the session secret.
type Client struct {
	client  *http.Client
	connect *http.Client
	baseURL string
	creds   driven.CredentialsProvider
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("api: credentials provider is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		connect: &http.Client{Timeout: ConnectTimeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		creds:   cfg.Credentials,
		limiter: rate.NewLimiter(rate.Limit(requestRate), requestRate),
	}
	c.tokens = NewTokenSource(cfg.Credentials, c.Connect)
	return c, nil
}

// Wire formats.

type sourceListResponse struct {
	Data []wireSource `json:"data"`
}

type wireSource struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Subtitle  string      `json:"subtitle"`
	Author    string      `json:"author"`
	Type      string      `json:"type"`
	Origin    string      `json:"origin"`
	CatalogID string      `json:"catalogId"`
	CreatedAt time.Time   `json:"createdAt"`
	Quotes    []wireQuote `json:"quotes"`
}

type wireQuote struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Note      string    `json:"note"`
	Color     string    `json:"color"`
	Location  string    `json:"location"`
	SourceID  string    `json:"sourceId"`
	CreatedAt time.Time `json:"createdAt"`
}

type tagListResponse struct {
	Data []wireTag `json:"data"`
}

type wireTag struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SourceIDs   []string `json:"sourceIds"`
}

type reflectionResponse struct {
	Data *struct {
		DailyReflection *wireReflection `json:"dailyReflection"`
	} `json:"data"`
}

type wireReflection struct {
	SourceID     string `json:"sourceId"`
	SourceTitle  string `json:"sourceTitle"`
	SourceAuthor string `json:"sourceAuthor"`
	SourceType   string `json:"sourceType"`
	Quote        string `json:"quote"`
	Note         string `json:"note"`
	Location     string `json:"location"`
	Color        string `json:"color"`
}

// connectResponse carries the handshake result. success is optional on
// the wire; an explicit false means rejection.
type connectResponse struct {
	Success *bool `json:"success"`
	Data    struct {
		Secret string `json:"secret"`
	} `json:"data"`
}

// Connect performs the session handshake using the api key alone.
func (c *Client) Connect(ctx context.Context) (string, error) {
	key := c.creds.APIKey()
	if key == "" {
		return "", fmt.Errorf("%w: api key not configured", domain.ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/connect", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.connect.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConnect, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: connect returned %d", domain.ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: connect returned %d", domain.ErrConnect, resp.StatusCode)
	}

	var parsed connectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode connect response: %v", domain.ErrConnect, err)
	}
	if (parsed.Success != nil && !*parsed.Success) || parsed.Data.Secret == "" {
		return "", fmt.Errorf("%w: handshake rejected", domain.ErrUnauthorized)
	}
	return parsed.Data.Secret, nil
}

// FetchSources returns all sources with their child quotes.
func (c *Client) FetchSources(ctx context.Context) ([]domain.Source, error) {
	var parsed sourceListResponse
	if err := c.get(ctx, "/obsidian-get", &parsed); err != nil {
		return nil, err
	}

	sources := make([]domain.Source, 0, len(parsed.Data))
	for _, ws := range parsed.Data {
		src := domain.Source{
			ID:        ws.ID,
			Title:     ws.Title,
			Subtitle:  ws.Subtitle,
			Author:    ws.Author,
			Type:      ws.Type,
			Origin:    ws.Origin,
			CatalogID: ws.CatalogID,
			CreatedAt: ws.CreatedAt,
		}
		for _, wq := range ws.Quotes {
			src.Quotes = append(src.Quotes, domain.Quote{
				ID:        wq.ID,
				Content:   wq.Content,
				Note:      wq.Note,
				Color:     wq.Color,
				Location:  wq.Location,
				SourceID:  wq.SourceID,
				CreatedAt: wq.CreatedAt,
			})
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// FetchTags returns all tags.
func (c *Client) FetchTags(ctx context.Context) ([]domain.Tag, error) {
	var parsed tagListResponse
	if err := c.get(ctx, "/obsidian-get-tags", &parsed); err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, 0, len(parsed.Data))
	for _, wt := range parsed.Data {
		tags = append(tags, domain.Tag{
			ID:          wt.ID,
			Title:       wt.Title,
			Description: wt.Description,
			SourceIDs:   wt.SourceIDs,
		})
	}
	return tags, nil
}

// FetchDailyReflection returns today's reflection, or nil when the
// service offers none.
func (c *Client) FetchDailyReflection(ctx context.Context) (*domain.DailyReflection, error) {
	var parsed reflectionResponse
	if err := c.get(ctx, "/daily-reflection", &parsed); err != nil {
		return nil, err
	}
	if parsed.Data == nil || parsed.Data.DailyReflection == nil {
		return nil, nil
	}

	wr := parsed.Data.DailyReflection
	return &domain.DailyReflection{
		SourceID:     wr.SourceID,
		SourceTitle:  wr.SourceTitle,
		SourceAuthor: wr.SourceAuthor,
		SourceType:   wr.SourceType,
		Quote:        wr.Quote,
		Note:         wr.Note,
		Location:     wr.Location,
		Color:        wr.Color,
	}, nil
}

// get performs an authenticated GET against path and decodes the body
// into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	token.SetAuthHeader(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnect, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %s returned %d", domain.ErrUnauthorized, path, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", domain.ErrConnect, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
