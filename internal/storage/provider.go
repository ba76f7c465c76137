// Package storage retrieves the raw dataset document from where it lives.
package storage

import "context"

// maxDocumentBytes caps the size of a dataset document.
const maxDocumentBytes = 64 << 20

// Provider is the interface for dataset sources.
type Provider interface {
	// Fetch returns the raw bytes of the dataset document. Failures wrap
	// apperr.ErrFetch.
	Fetch(ctx context.Context) ([]byte, error)
	// Location describes the source for logs and status output.
	Location() string
}
