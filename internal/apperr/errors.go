// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrFetch marks a failure to retrieve the dataset (I/O, network, HTTP status).
	ErrFetch = errors.New("dataset fetch failed")
	// ErrParse marks a dataset that is not valid JSON or has an unknown shape.
	ErrParse = errors.New("dataset parse failed")
	// ErrUnavailable is returned by read paths while no dataset is loaded.
	ErrUnavailable = errors.New("dataset unavailable")
	// ErrRegionMissing marks a page region with no template to render into.
	ErrRegionMissing = errors.New("region missing")
	// ErrNotFound marks a record id outside the dataset.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks malformed selection or cursor input.
	ErrInvalidInput = errors.New("invalid input")
)

// UnavailableMessage is the single user-facing text shown when loading failed.
const UnavailableMessage = "Error loading data, please try again later."
