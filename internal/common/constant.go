// Package common contains shared constants and sentinel errors used across
// farmdash components.
package common

// TokenStorageKey is the metadata key under which the bearer credential is
// persisted in client storage.
const TokenStorageKey = "token"

// RequestIDHeaderName is the HTTP header carrying the per-request correlation id.
const RequestIDHeaderName = "X-Request-Id"
