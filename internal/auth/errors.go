package auth

import "errors"

var (
	// ErrMissingToken indicates no bearer token was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrMalformedToken indicates the token string is not a parseable JWT.
	ErrMalformedToken = errors.New("malformed token")
	// ErrBadSignature indicates the token signature does not match its claims.
	ErrBadSignature = errors.New("token signature verification failed")
	// ErrExpiredToken indicates the token's exp claim is in the past.
	ErrExpiredToken = errors.New("token expired")
	// ErrUnsupportedToken indicates an unexpected signing method or format.
	ErrUnsupportedToken = errors.New("unsupported token")
	// ErrRevokedToken indicates the token was invalidated by logout.
	ErrRevokedToken = errors.New("token revoked")
	// ErrTokenAlreadyInvalid indicates a logout target that is not active.
	ErrTokenAlreadyInvalid = errors.New("token already invalid")
	// ErrUnauthenticated indicates a handler required an identity that was never bound.
	ErrUnauthenticated = errors.New("not authenticated")
)
