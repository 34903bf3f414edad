// Package remote holds the plumbing shared by the two remote HTTP clients:
// the JSON request helper and the transport error type both propagate.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TransportError is a network or HTTP layer failure from a remote service.
// It is surfaced to callers unchanged; no service-specific error codes are
// interpreted. Status is 0 when the request never produced a response.
type TransportError struct {
	Status int
	URL    string
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected status %d from %s: %s", e.Status, e.URL, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// maxErrorBody caps how much of an error response body is kept for logging.
const maxErrorBody = 512

// DoJSON executes a JSON request and decodes a 2xx response into out.
// in and out may be nil. Non-2xx responses and network failures return
// a *TransportError.
func DoJSON(ctx context.Context, client *http.Client, method, url string, headers http.Header, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if in != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Status: resp.StatusCode,
			URL:    url,
			Body:   string(bytes.TrimSpace(snippet)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", url, err)
		}
	}

	return nil
}
