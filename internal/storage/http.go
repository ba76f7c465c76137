package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starford/supportdir/internal/apperr"
)

// HTTP implements Provider by issuing a single GET for the document.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates a provider for url. A zero timeout means no client-side
// timeout beyond the caller's context.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{url: url, client: &http.Client{Timeout: timeout}}
}

// Location implements Provider.
func (h *HTTP) Location() string {
	return h.url
}

// Fetch downloads the document. Any non-2xx status is a fetch failure.
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", apperr.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: HTTP status %d", apperr.ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", apperr.ErrFetch, err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", apperr.ErrFetch, maxDocumentBytes)
	}
	return data, nil
}
