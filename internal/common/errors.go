// Package common defines the sentinel errors shared by the Keijiban client
// layers. Callers match them with errors.Is; producers attach them with %w
// next to the underlying cause.
package common

import "errors"

var (
	// Decode boundary: a remote DTO lacked a required identifier.
	ErrMissingIdentifier = errors.New("missing identifier")

	// Local store errors.
	ErrStoreRead  = errors.New("local store read failed")
	ErrStoreWrite = errors.New("local store write failed")
	ErrNotFound   = errors.New("not found")

	// A single bitmap could not be serialized.
	ErrEncode = errors.New("image encode failed")

	// Network or HTTP failure talking to the board service.
	ErrGateway = errors.New("gateway error")

	ErrValidation     = errors.New("validation error")
	ErrSyncInProgress = errors.New("board sync already in progress")

	// Configuration.
	ErrMissingBaseURL = errors.New("api base url is not set")
)
