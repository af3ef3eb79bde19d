package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"example/sweetshop-client/internal/logger"
)

// TokenStore supplies the persisted bearer token and clears the credential
// pair when the backend rejects it.
type TokenStore interface {
	Token() (string, error)
	Clear() error
}

// Client wraps HTTP access to the backend. Every request carries the bearer
// token when one is stored. A 401 response clears the persisted credentials,
// fires the unauthorized hook exactly once for that failure, and then
// propagates the original error to the caller.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenStore
	onUnauthorized func()
}

// New creates a client for the backend at baseURL
func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// SetUnauthorizedHook registers the callback fired when a request comes back 401
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Get issues a GET request and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// PostJSON issues a POST request with a JSON body
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("postJSON %s: marshal: %v", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, payload, "application/json", out)
}

// PostForm issues a POST request with a form-encoded body
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, []byte(form.Encode()), "application/x-www-form-urlencoded", out)
}

// PutJSON issues a PUT request with a JSON body
func (c *Client) PutJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("putJSON %s: marshal: %v", path, err)
	}
	return c.do(ctx, http.MethodPut, path, nil, payload, "application/json", out)
}

// Delete issues a DELETE request, discarding any response body
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		logger.Log.Errorw("Failed to build request", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %v", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Attach the bearer token when one is stored
	token, err := c.tokens.Token()
	if err != nil {
		logger.Log.Warnw("Failed to read stored token", "error", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Log.Debugw("Sending request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Warnw("Request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Log.Errorw("Failed to read response body", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: read body: %v", method, path, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseError(resp.StatusCode, raw)
		logger.Log.Debugw("Backend rejected request", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)

		if resp.StatusCode == http.StatusUnauthorized {
			// Token invalid or expired: drop persisted credentials and let the
			// session store know, then hand the original error back.
			if err := c.tokens.Clear(); err != nil {
				logger.Log.Errorw("Failed to clear credentials after 401", "error", err)
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			logger.Log.Errorw("Failed to decode response", "method", method, "path", path, "error", err)
			return fmt.Errorf("%s %s: decode: %v", method, path, err)
		}
	}
	return nil
}
