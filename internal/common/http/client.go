package http

import (
	"context"
	"net/http"
	"time"
)

// Client is the outbound HTTP client for upstream APIs. When a bearer token
// is configured it is attached to every request.
type Client struct {
	httpClient  *http.Client
	bearerToken string
}

func NewClient(timeout time.Duration, bearerToken string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		bearerToken: bearerToken,
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.bearerToken != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.Do(req.WithContext(ctx))
}
