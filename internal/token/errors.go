package token

import "errors"

var (
	// ErrMissingSecret is returned when no signing secret is configured.
	// Fatal for the current request; callers surface it as a 5xx.
	ErrMissingSecret = errors.New("auth secret is not configured")
	// ErrSigningFailed is returned when the HMAC signing operation fails.
	ErrSigningFailed = errors.New("failed to sign token")
	// ErrInvalidToken is returned when a token fails signature or claim validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token's expiry has elapsed.
	ErrExpiredToken = errors.New("token has expired")
)
