// Package apperr defines the sentinel errors shared across components.
package apperr

import "errors"

var (
	// ErrNotFound means no metadata record matches the requested key.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFormat means a decoded payload failed its basic shape check.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrEmptyContent means a body was fetched but is blank after trimming.
	ErrEmptyContent = errors.New("empty content")
)
