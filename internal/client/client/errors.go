package client

import "errors"

// These are always joined with common.ErrGateway.
var (
	ErrUnavailable      = errors.New("board service unavailable")
	ErrRejected         = errors.New("request rejected by board service")
	ErrMalformedPayload = errors.New("malformed payload")
)
