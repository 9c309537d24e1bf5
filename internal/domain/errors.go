package domain

import "errors"

var (
	// ErrUnavailable means the embedder or vector index is not initialized.
	ErrUnavailable = errors.New("index engine not initialized")

	// ErrEmptyQuery is returned for a query that is empty after trimming.
	ErrEmptyQuery = errors.New("query text is required")

	// ErrDimensionMismatch is returned when a vector does not match the
	// index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
