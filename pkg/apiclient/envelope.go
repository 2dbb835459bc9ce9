package apiclient

import "encoding/json"

// Package apiclient provides a thin base layer for building typed clients
// against samvad REST services. Every response body is expected to be a JSON
// envelope; apiclient composes URLs, flattens query parameters, and unwraps
// that envelope, leaving transport concerns to pkg/httpclient.

// Envelope is the uniform response wrapper used by all samvad services.
// Status and StatusCode are set by the server and never mutated here.
type Envelope[T any] struct {
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

// decodeEnvelope parses a success-response body into an envelope. An empty or
// unparseable body yields a zero envelope rather than an error; callers must
// treat absent fields as "no data".
func decodeEnvelope[T any](body []byte) Envelope[T] {
	var env Envelope[T]
	if len(body) == 0 {
		return env
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope[T]{}
	}
	return env
}
