// Package remote implements the remote snapshot store over HTTP. The
// remote document is a whole-document overwrite keyed by learner context;
// several historical payload shapes are normalized to canonical records on
// the way in.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.RemoteStore = (*Client)(nil)

// Client talks to the remote snapshot document store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given base URL. A zero timeout
// defaults to ten seconds.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "remote_client"),
	}
}

// Load implements store.RemoteStore.
func (c *Client) Load(ctx context.Context, contextKey string) (*domain.RemoteSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contextURL(contextKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build load request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, store.ErrSnapshotNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: load returned status %d", store.ErrRemoteUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrRemoteUnavailable, err)
	}

	snapshot, err := Normalize(body)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize remote snapshot: %w", err)
	}

	c.logger.Debug("loaded remote snapshot",
		"context_key", contextKey,
		"record_count", len(snapshot.Sentences))
	return snapshot, nil
}

// Save implements store.RemoteStore. The snapshot is always written in the
// canonical envelope shape.
func (c *Client) Save(ctx context.Context, contextKey string, snapshot *domain.RemoteSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, c.contextURL(contextKey), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: save returned status %d", store.ErrRemoteUnavailable, resp.StatusCode)
	}

	c.logger.Debug("saved remote snapshot",
		"context_key", contextKey,
		"record_count", len(snapshot.Sentences))
	return nil
}

func (c *Client) contextURL(contextKey string) string {
	return fmt.Sprintf("%s/contexts/%s", c.baseURL, url.PathEscape(contextKey))
}
