// internal/common/http/client.go

// Package http wraps the standard client with a fixed timeout for the
// service's outbound calls, such as batch-score posting intakes to a
// running decision server.
package http

import (
	"context"
	"net/http"
	"time"
)

// Client is an http.Client with a hard per-request timeout.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// DoWithContext sends the request under ctx, so callers can cancel
// early without waiting out the client timeout.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
