package common

import "errors"

// Sentinel errors shared by the transport, storage and service layers.
// Callers should use errors.Is to match these values.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrNetwork: the request never reached the server or no response came back.
	ErrNetwork = errors.New("network failure")

	// ErrServer: the gateway answered with a non-2xx status.
	ErrServer = errors.New("server error")

	// ErrorUnauthorized is returned for 401/403 answers; it also matches ErrServer.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrValidation marks client-side input checks; such input is never sent.
	ErrValidation = errors.New("validation failure")

	// ErrInvalidToken: the stored credential cannot be decoded.
	ErrInvalidToken = errors.New("invalid token")
)
