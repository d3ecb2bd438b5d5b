// Package domain defines domain-level errors for the marketdata feature.
package domain

import "errors"

var (
	// ErrInvalidBar indicates that a price bar failed validation
	// (missing instrument or timestamp, non-positive prices, inconsistent high/low, negative volume).
	ErrInvalidBar = errors.New("invalid price bar")

	// ErrDuplicateBar indicates that a bar for the same instrument and timestamp already exists.
	ErrDuplicateBar = errors.New("price bar already exists")

	// ErrUnsupportedFormat is returned when an ingest file has an extension the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
