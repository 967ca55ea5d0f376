package fetch

import (
	"context"
	"net/http"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
)

// Client implements Fetcher over net/http. There is no retry policy:
// every failure surfaces as a per-URL outcome and the batch moves on.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient creates an HTTP client with a bounded overall timeout.
func NewClient(cfg config.HTTP) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
	}
}

// Fetch opens a streaming GET. Non-2xx responses are returned to the
// caller with the body closed; transport failures return an error.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrRequestCreation(err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ErrTransport(err)
	}

	out := &Response{
		Body:          resp.Body,
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		out.Body = nil
	}

	return out, nil
}
