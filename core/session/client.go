// Package session talks to the account backend: it loads the logged in user
// and logs them out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	currentUserPath = "/api/user/current"
	logoutPath      = "/api/auth/logout"
)

// TokenCookie is the cookie the account backend keeps the session in.
const TokenCookie = "token"

var ErrNotLoggedIn = errors.New("not logged in")

// NewHTTPClient returns a traced client with a cookie jar. Share it with the
// other backend clients so they carry the session cookie.
func NewHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar:       jar,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *Store
	token      string
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithStore(store *Store) ClientOption {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

// WithSessionToken seeds the client's cookie jar with an existing session
// token, so requests are made as the logged in user. Clients sharing the
// same http.Client carry the token too.
func WithSessionToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   &Store{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient()
	}
	if c.token != "" {
		if err := c.seedToken(); err != nil {
			logger.Warn("failed to set session token", "error", err)
		}
	}
	return c
}

func (c *Client) seedToken() error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse backend URL: %w", err)
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: TokenCookie, Value: c.token, Path: "/"}})
	return nil
}

func (c *Client) Store() *Store {
	return c.store
}

// CurrentUser loads the logged in user and keeps it in the store.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	ctx, span := tracer.Start(ctx, "get current user")
	defer span.End()

	fail := func(err error) (User, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+currentUserPath, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusNotFound:
		return fail(ErrNotLoggedIn)
	case resp.StatusCode != http.StatusOK:
		return fail(fmt.Errorf("non-OK HTTP status: %s", resp.Status))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return fail(fmt.Errorf("failed to decode user: %w", err))
	}

	c.store.Set(user)
	return user, nil
}

// Logout asks the backend to end the session, clears the stored user and
// calls onLoggedOut. The local state is cleared and onLoggedOut is called
// even if the request fails; the failure is only logged.
func (c *Client) Logout(ctx context.Context, onLoggedOut func()) {
	ctx, span := tracer.Start(ctx, "logout")
	defer span.End()

	if err := c.logout(ctx); err != nil {
		logger.Warn("logout request failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	c.store.Clear()
	if onLoggedOut != nil {
		onLoggedOut()
	}
}

func (c *Client) logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+logoutPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}
	return nil
}
