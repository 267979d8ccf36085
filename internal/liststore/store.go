package liststore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"likeness/internal/logging"
	"likeness/internal/membership"
)

// ErrPublish indicates the membership document could not be written. This is
// run-fatal: a run that cannot publish its result has accomplished nothing
// durable.
var ErrPublish = errors.New("membership publish failed")

const maxDocumentBytes = 8 << 20

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the endpoint holding the published membership document.
type Client struct {
	endpoint string
	token    string
	client   HTTPDoer
	logger   *slog.Logger
}

// NewClient constructs a list store client. token, when non-empty, is sent
// as a bearer token on publish.
func NewClient(endpoint, token string, client HTTPDoer, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		client:   client,
		logger:   logging.NewComponentLogger(logger, "liststore"),
	}
}

// Fetch retrieves the previously published membership set. Any failure,
// including a missing document, degrades to an empty set so a first run
// bootstraps cleanly; the failure is logged, never returned.
func (c *Client) Fetch(ctx context.Context) *membership.Set {
	set, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("previous membership unavailable, starting from empty",
			logging.Args(logging.Error(err))...)
		return membership.NewSet()
	}
	return set
}

func (c *Client) fetch(ctx context.Context) (*membership.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return membership.DecodeDocument(io.LimitReader(resp.Body, maxDocumentBytes))
}

// Publish writes the membership set to the endpoint. Failures wrap
// ErrPublish.
func (c *Client) Publish(ctx context.Context, set *membership.Set) error {
	var body bytes.Buffer
	if err := set.EncodeDocument(&body); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint, &body)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrPublish, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: put %q: %w", ErrPublish, c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: put %q: unexpected status %s", ErrPublish, c.endpoint, resp.Status)
	}
	c.logger.Info("membership published", logging.Args(logging.Int("members", set.Len()))...)
	return nil
}
