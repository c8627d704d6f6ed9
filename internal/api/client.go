// Package api is the client for the Blog House platform REST API.
//
// Every endpoint answers with a {success, data|message} envelope. Reads go
// through the query cache; mutations invalidate the tags they affect so the
// next read refetches. Errors surface the server's message verbatim when one
// is present, otherwise a generic fallback.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bloghouse/tatame/internal/auth"
	"github.com/bloghouse/tatame/internal/errors"
	"github.com/bloghouse/tatame/internal/logger"
	"github.com/bloghouse/tatame/internal/querycache"
)

// DefaultBaseURL is the production platform endpoint.
const DefaultBaseURL = "https://app.bloghouse.io"

// fallbackMessage is shown when the server reports failure without a message.
const fallbackMessage = "Something went wrong. Please try again."

// envelope is the platform's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to the platform API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  auth.TokenSource
	cache   *querycache.Cache
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithCache replaces the query cache.
func WithCache(qc *querycache.Cache) Option {
	return func(c *Client) { c.cache = qc }
}

// NewClient creates a platform API client.
func NewClient(baseURL string, tokens auth.TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		cache:   querycache.New(),
		log:     logger.NewEnvLogger("[api]"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured platform endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Cache returns the client's query cache.
func (c *Client) Cache() *querycache.Cache {
	return c.cache
}

// do performs one request and unwraps the response envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	c.log.Debug("%s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Couldn't reach Blog House",
			"Check your network connection and the API URL in your config.")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI, "Failed to read response", "")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.New(errors.ErrAuth,
			"Blog House rejected your token",
			"Run 'tatame login' to refresh it.")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, errors.New(errors.ErrAPI,
				fmt.Sprintf("Request failed with status %d", resp.StatusCode),
				fallbackMessage)
		}
		return nil, errors.WrapWithCode(err, errors.ErrAPI, "Unexpected response from server", "")
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallbackMessage
		}
		return nil, errors.New(errors.ErrAPI, msg, "")
	}

	return env.Data, nil
}

// getCached performs a GET, consulting the cache first. On a miss the raw
// data payload is stored under key with the given tags.
func (c *Client) getCached(ctx context.Context, path, key string, out any, tags ...querycache.Tag) error {
	if data, ok := c.cache.Get(key); ok {
		c.log.Debug("cache hit %s", key)
		return json.Unmarshal(data, out)
	}

	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		// Prior cached data, if any, stays in place.
		return err
	}
	c.cache.Set(key, data, tags...)
	return json.Unmarshal(data, out)
}
