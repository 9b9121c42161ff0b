package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrorURLNotFound = errors.New("URL not found")

// Options configures remote fetches.
type Options struct {
	// Token is sent as a bearer token when set.
	Token   string
	Timeout time.Duration
}

// Fetch performs a GET request and returns the response body on HTTP 200.
// The caller must close the returned reader.
func Fetch(ctx context.Context, url string, opts Options) (io.ReadCloser, error) {
	c, err := GetClient(ctx, opts.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP client: %w", err)
	}
	if opts.Timeout > 0 {
		c.Timeout = opts.Timeout
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP Get request: %w", err)
	}
	req.Header.Set("User-Agent", clientAgent)

	resp, err := c.Do(req) //nolint:gosec // URL supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("error executing HTTP Get request: %w", err)
	}
	PrintHTTPResponse(resp)

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrorURLNotFound
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("error downloading file (status: %d - %s): %s", resp.StatusCode, resp.Status, url)
	}

	return resp.Body, nil
}
