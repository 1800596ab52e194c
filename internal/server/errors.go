package server

import "errors"

var (
	// ErrLineTooLong is returned by Connection.ReadLine when an inbound
	// line exceeds the configured maximum. The oversized line has been
	// consumed and the connection remains usable.
	ErrLineTooLong = errors.New("maximum line length exceeded")
)
