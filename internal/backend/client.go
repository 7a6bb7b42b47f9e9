package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/imrishuroy/go-storefront-gateway/internal/auth"
)

// Client is the base HTTP client for the commerce API. Every call obtains a
// bearer token first: a request-scoped token from ctx when present,
// otherwise the configured Waiter polls the token source until it is ready.
// Requests never go out without a token.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *auth.Waiter
}

// NewClient returns a Client rooted at baseURL. httpClient may be nil, in
// which case http.DefaultClient is used; no client-side timeout is imposed
// beyond the caller's context.
func NewClient(baseURL string, tokens *auth.Waiter, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// Do issues one JSON request against the API. body (when non-nil) is
// JSON-encoded; out (when non-nil) receives the decoded 2xx response body.
// Non-2xx responses and transport failures are returned as errors; the
// former always wrap an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	token, ok := auth.FromContext(ctx)
	if !ok {
		var err error
		token, err = c.tokens.Wait(ctx)
		if err != nil {
			return err
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", method, path, newAPIError(resp.StatusCode, respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}
