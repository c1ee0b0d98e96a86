// Package assistant asks the account backend to reason about a transcript.
// The backend keeps the persona and the user's history, so requests carry
// only the transcript and the session cookie.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const askPath = "/api/user/asktoassistant"

var ErrUnauthorized = errors.New("not logged in")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient sets the client used for requests. It should share its
// cookie jar with the session client so requests are authenticated.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type askRequest struct {
	Command string `json:"command"`
}

func (c *Client) Reason(ctx context.Context, transcript string) (*commands.Command, error) {
	ctx, span := tracer.Start(ctx, "ask assistant")
	defer span.End()

	fail := func(err error) (*commands.Command, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body, err := json.Marshal(askRequest{Command: transcript})
	if err != nil {
		return fail(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+askPath, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	span.SetAttributes(attribute.String("request.url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("failed to read response body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fail(ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		logger.Warn("assistant request failed", "status", resp.Status, "body", string(respBody))
		return fail(fmt.Errorf("non-OK HTTP status: %s", resp.Status))
	}

	command, err := reasoning.ParseCommand(string(respBody))
	if err != nil {
		return fail(fmt.Errorf("failed to parse assistant answer: %w", err))
	}
	span.SetAttributes(attribute.String("command.type", command.Type))
	return command, nil
}
