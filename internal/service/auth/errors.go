// Package auth verifies bearer tokens issued by the external identity
// service. This service never issues tokens; it only checks signatures and
// extracts the caller's identity.
package auth

import "errors"

// Token verification errors
var (
	// ErrInvalidToken is returned when a token is malformed, carries a bad
	// signature, or uses an unexpected signing method.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry claim has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's not-before claim is in
	// the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")
)
