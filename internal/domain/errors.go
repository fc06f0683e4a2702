package domain

import "errors"

// Failure kinds of a conversion. Callers match them with errors.Is; the
// wrapped message carries the (sanitized) detail.
var (
	// ErrInvalidRequest is a malformed period or request field.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnavailableData is a year the source cannot serve yet.
	ErrUnavailableData = errors.New("data unavailable")
	// ErrTransport is a connection, timeout or other network failure.
	ErrTransport = errors.New("transport failure")
	// ErrRemoteRejection is a non-success HTTP status from the source.
	ErrRemoteRejection = errors.New("remote rejection")
	// ErrEmptyResponse is a response without data rows.
	ErrEmptyResponse = errors.New("empty response")
	// ErrMalformedResponse is a response whose columns or values cannot be used.
	ErrMalformedResponse = errors.New("malformed response")
)
