// Package common contains shared constants and small helpers used across
// FruitPie client components.
package common

const (
	// TokenStorageKey is the key under which the session token is persisted.
	TokenStorageKey = "fruitpie_token"

	// AuthorizationHeaderName carries the bearer token on authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries the per-request correlation ID.
	RequestIDHeaderName = "X-Request-ID"
)
