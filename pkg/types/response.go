// Package types holds the wire envelopes shared by every admin API handler.
package types

// SuccessEnvelope wraps successful responses so the dashboard always unpacks
// payloads from the same `data` key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Code is a stable machine-readable token
// (VALIDATION_ERROR, STATE_CONFLICT, ...); Details carries field-level context
// such as the offending item index or the allowed status transitions.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under the `error` key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
