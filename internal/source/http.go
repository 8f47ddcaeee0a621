package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPReader reads datasets published over HTTP(S).
type HTTPReader struct {
	Client *http.Client
}

// NewHTTPReader creates a reader using client, or http.DefaultClient when nil.
func NewHTTPReader(client *http.Client) *HTTPReader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPReader{Client: client}
}

// ReadBlob implements BlobReader. Any non-2xx status is an error.
func (r *HTTPReader) ReadBlob(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", uri, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", uri, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", uri, err)
	}
	return data, nil
}
