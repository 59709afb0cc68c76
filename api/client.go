// ABOUTME: HTTP client for the relationship-manager server API
// ABOUTME: Handles JSON requests, bearer auth, and single-flight token refresh
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Client talks to the server API. It is safe for concurrent use; when
// several requests hit a 401 at once, only one of them performs the token
// refresh and the rest reuse the result.
type Client struct {
	baseURL  string
	http     *http.Client
	deviceID string
	log      zerolog.Logger

	mu      sync.Mutex
	session *Session
	gen     uint64 // bumped on every session change

	refreshMu sync.Mutex // held for the duration of a token refresh
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithDeviceID sets the X-Device-Id header sent with every request.
func WithDeviceID(id string) Option {
	return func(c *Client) { c.deviceID = id }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithSession seeds the client with an existing session, typically loaded
// from disk at startup.
func WithSession(session *Session) Option {
	return func(c *Client) { c.session = session }
}

// New constructs a Client for the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	copied := *c.session
	return &copied
}

// Authed reports whether the client holds credentials.
func (c *Client) Authed() bool {
	return c.Session() != nil
}

// setSession replaces the in-memory session and persists it. Passing nil
// signs out.
func (c *Client) setSession(session *Session) error {
	c.mu.Lock()
	c.session = session
	c.gen++
	c.mu.Unlock()

	if session == nil {
		return ClearSession()
	}
	return SaveSession(session)
}

// snapshot returns the current access token and refresh generation.
func (c *Client) snapshot() (token string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		token = c.session.Token.AccessToken
	}
	return token, c.gen
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one API request. On a 401 it refreshes the token once and
// retries the original request; if the refresh fails the session is cleared
// and ErrSessionExpired is returned.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	token, gen := c.snapshot()
	retried := false
	for {
		status, err := c.attempt(ctx, method, path, payload, token, out)
		if err != nil {
			return err
		}
		if status != http.StatusUnauthorized {
			return nil
		}
		if retried {
			// Refreshed token is still rejected: credentials are dead.
			_ = c.setSession(nil)
			return ErrSessionExpired
		}
		if err := c.refresh(ctx, gen); err != nil {
			return err
		}
		token, gen = c.snapshot()
		retried = true
		c.log.Debug().Str("method", method).Str("path", path).Msg("retrying after token refresh")
	}
}

// attempt performs a single HTTP exchange. A 401 is reported through the
// status so the caller can refresh; every other non-2xx becomes a
// StatusError.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, token string, out any) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// refresh exchanges the refresh token for a new token pair. staleGen is the
// generation the caller saw its 401 under; if another goroutine already
// refreshed past it, refresh returns immediately and the caller retries
// with the newer token.
func (c *Client) refresh(ctx context.Context, staleGen uint64) error {
	// refreshMu serializes the whole exchange so a burst of 401s produces
	// exactly one refresh call.
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.Lock()
	if c.gen != staleGen {
		c.mu.Unlock()
		return nil
	}
	if c.session == nil || c.session.Token.RefreshToken == "" {
		c.session = nil
		c.mu.Unlock()
		_ = ClearSession()
		return ErrSessionExpired
	}
	refreshToken := c.session.Token.RefreshToken
	user := c.session.User
	c.mu.Unlock()

	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return fmt.Errorf("failed to encode refresh request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Can't reach the server at all: keep the session, surface the
		// network error so callers can fall back to the cache.
		return fmt.Errorf("token refresh failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = c.setSession(nil)
		c.log.Warn().Int("status", resp.StatusCode).Msg("token refresh rejected, signing out")
		return ErrSessionExpired
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if auth.User.ID == "" {
		auth.User = user
	}
	if err := c.setSession(auth.Session()); err != nil {
		return fmt.Errorf("failed to persist refreshed session: %w", err)
	}
	c.log.Debug().Msg("access token refreshed")
	return nil
}

// tokenFromStrings builds the persisted token pair from the wire form.
func tokenFromStrings(access, refresh string) oauth2.Token {
	return oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}
}
