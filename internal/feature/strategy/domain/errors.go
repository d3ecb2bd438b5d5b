// Package domain defines domain-level errors for the strategy feature.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates that no bars were available after filtering.
	// Surfaced to HTTP clients as "no data".
	ErrEmptyInput = errors.New("no data")

	// ErrMalformedBar indicates a bar the pipeline cannot compute with, such as a non-positive close.
	ErrMalformedBar = errors.New("malformed bar")

	// ErrComputation wraps any other failure inside one instrument's pipeline.
	ErrComputation = errors.New("computation failed")
)

// InvalidWindowError reports a rejected moving-average window configuration.
type InvalidWindowError struct {
	ShortWindow int
	LongWindow  int
	Reason      string
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid windows short=%d long=%d: %s", e.ShortWindow, e.LongWindow, e.Reason)
}
