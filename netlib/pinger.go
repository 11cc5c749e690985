package netlib

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type httpPinger struct {
	client HTTPClient
}

func (h httpPinger) Ping(ctx context.Context, candidate ServerCandidate) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, candidate.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("cannot build a request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot send a request: %w", err)
	}

	defer func() {
		io.Copy(io.Discard, resp.Body) // nolint: errcheck
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server has responded with %s", resp.Status)
	}

	return nil
}

// NewHTTPPinger returns a pinger which does HEAD requests. Any 2xx or
// 3xx response means that server is alive.
func NewHTTPPinger(client HTTPClient) Pinger {
	return httpPinger{
		client: client,
	}
}

// NewPingerHTTPClient returns an HTTP client suitable for a pinger.
// Redirects are not followed: a redirect is an answer already and
// following it measures a different server.
func NewPingerHTTPClient(transport http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
