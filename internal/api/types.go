// Package api defines response envelopes shared by every HTTP handler.
package api

// ErrorResponse is the body returned for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
