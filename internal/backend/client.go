// Package backend is the client for the kidwatch REST backend. It owns the
// bearer-token handshake: every authenticated call reads the token from the
// session store, and any authorization failure tears the session down.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/session"
)

// DefaultBaseURL is the hosted backend; local development overrides it.
const DefaultBaseURL = "https://child-tracker-server.onrender.com/api"

// ClientConfig holds configuration for the backend client.
type ClientConfig struct {
	// BaseURL of the backend API, including the /api prefix (optional,
	// defaults to DefaultBaseURL).
	BaseURL string

	// Sessions supplies the bearer token and receives the logout on
	// authorization failure (required).
	Sessions *session.Manager

	// HTTPClient to use (optional). Requests are made with a single attempt:
	// no retries, no backoff. Failures surface to the view layer instead.
	HTTPClient *http.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client issues requests against the backend with the session token attached
// and maps transport and HTTP failures onto the typed errors in this package.
type Client struct {
	baseURL    string
	sessions   *session.Manager
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:    baseURL,
		sessions:   cfg.Sessions,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Get performs an authenticated GET and decodes the 2xx body into out.
//
// Failure mapping: no stored token returns ErrNoToken and logs the session
// out without touching the network; a 401 logs out exactly once and returns
// ErrUnauthorized; any other non-2xx returns a *StatusError with the session
// intact; transport errors are wrapped and returned as-is. A body that does
// not decode, or that fails its Validate check, returns ErrBadResponse.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs an authenticated POST with a JSON body. Same failure mapping
// as Get.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, ok := c.sessions.Token()
	if !ok {
		// The session is unusable without a token. Tear it down before the
		// caller sees the error so no stale user profile survives.
		c.teardown("missing token")
		return ErrNoToken
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.teardown("backend returned 401")
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("request failed")
		return &StatusError{Status: resp.StatusCode}
	}

	return decode(resp, out)
}

// doPublic performs an unauthenticated POST (signin, password reset). A 401
// here is an ordinary failure, not a session teardown: there is no session.
func (c *Client) doPublic(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s: %w", apiErr.Message, &StatusError{Status: resp.StatusCode})
		}
		return &StatusError{Status: resp.StatusCode}
	}

	return decode(resp, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	url := c.baseURL + path
	var req *http.Request
	var err error
	if buf != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, buf)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, http.NoBody)
	}
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// decode parses a 2xx body into out and runs its structural check, if any.
func decode(resp *http.Response, out any) error {
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if v, ok := out.(Validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	}
	return nil
}

func (c *Client) teardown(reason string) {
	c.logger.Warn().Str("reason", reason).Msg("tearing down session")
	if err := c.sessions.Logout(); err != nil {
		c.logger.Error().Err(err).Msg("session teardown failed")
	}
}
