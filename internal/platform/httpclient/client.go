// Package httpclient provides the shared HTTP client used by all upstream API
// collaborators. It decodes JSON or XML responses and retries transient
// failures with exponential backoff.
package httpclient

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	// maxErrorBodyBytes caps how much of an upstream error body is retained.
	maxErrorBodyBytes = 4 << 10
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Client wraps an http.Client with retry and decode helpers.
type Client struct {
	http *http.Client
}

// New returns a Client with the given per-request timeout. A zero timeout
// uses the default of 30 seconds.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// GetJSON issues a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	body, err := c.get(ctx, rawURL, params, "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode json response: %w", err)
	}
	return nil
}

// GetRawJSON issues a GET request and returns the response body verbatim.
// Used when the payload must be preserved byte-for-byte for caching.
func (c *Client) GetRawJSON(ctx context.Context, rawURL string, params url.Values) (json.RawMessage, error) {
	body, err := c.get(ctx, rawURL, params, "application/json")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// GetXML issues a GET request and decodes the XML response into out.
func (c *Client) GetXML(ctx context.Context, rawURL string, params url.Values, out any) error {
	body, err := c.get(ctx, rawURL, params, "application/xml")
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode xml response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values, accept string) ([]byte, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if len(params) > 0 {
		target.RawQuery = params.Encode()
	}

	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", accept)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
			if resp.StatusCode >= 500 {
				return nil, statusErr
			}
			return nil, backoff.Permanent(statusErr)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return body, nil
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target.Host, err)
	}
	return body, nil
}
