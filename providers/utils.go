package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sorinirimies/netrunner-cli/netlib"
)

func flushResponse(resp io.ReadCloser) {
	io.Copy(io.Discard, resp) // nolint: errcheck
	resp.Close()
}

// sendRequest executes a request and checks its status. Response body
// has to be flushed by a caller.
func sendRequest(ctx context.Context,
	client netlib.HTTPClient,
	endpoint string,
	headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, netlib.NewProviderError(netlib.ProviderErrorTransport, "cannot build a request", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, netlib.NewProviderError(netlib.ProviderErrorTransport, "cannot send a request", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		flushResponse(resp.Body)

		return nil, netlib.NewProviderError(netlib.ProviderErrorHTTPStatus,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	return resp, nil
}

func fetchJSON(ctx context.Context,
	client netlib.HTTPClient,
	endpoint string,
	headers map[string]string,
	target interface{}) error {
	if headers == nil {
		headers = map[string]string{}
	}

	headers["Accept"] = "application/json"

	resp, err := sendRequest(ctx, client, endpoint, headers)
	if err != nil {
		return err
	}

	defer flushResponse(resp.Body)

	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(target); err != nil {
		return netlib.NewProviderError(netlib.ProviderErrorParse, "cannot parse a response", err)
	}

	return nil
}

func parseCoordinates(latitude, longitude *float64) (float64, float64, error) {
	if latitude == nil || longitude == nil {
		return 0, 0, netlib.NewProviderError(netlib.ProviderErrorParse, "coordinates are missing", nil)
	}

	return *latitude, *longitude, nil
}

func apiReason(reason string) string {
	if reason == "" {
		return "unknown"
	}

	return reason
}
