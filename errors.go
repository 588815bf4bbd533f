package portalauth

import (
	"errors"

	"github.com/waseaca/portalauth/store"
	"github.com/waseaca/portalauth/token"
)

var (
	// ErrEngineNotReady indicates an Engine that was not built through [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrEmailInvalidFormat indicates an email that does not have a basic local@domain.tld shape.
	ErrEmailInvalidFormat = errors.New("email format invalid")
	// ErrEmailNotAllowed indicates an email absent from the employee allow-list.
	ErrEmailNotAllowed = errors.New("email not permitted to sign in")
	// ErrPasswordEmpty indicates a blank password.
	ErrPasswordEmpty = errors.New("password required")
	// ErrPasswordMismatch indicates a password that does not match the shared secret.
	ErrPasswordMismatch = errors.New("password incorrect")
	// ErrAccountLocked indicates the attempt limit was reached and the lockout window is still open.
	ErrAccountLocked = errors.New("login attempt limit reached")
	// ErrNotAuthenticated indicates an operation that needs a valid session when none exists.
	ErrNotAuthenticated = errors.New("no authenticated session")
)

// Token verification failures, re-exported from the token package so callers
// can match them without importing it.
var (
	// ErrTokenTampered indicates a signature mismatch over the payload bytes.
	ErrTokenTampered = token.ErrTampered
	// ErrTokenExpired indicates a well-signed token past its expiry timestamp.
	ErrTokenExpired = token.ErrExpired
	// ErrTokenMalformed indicates an undecodable or unparseable token.
	ErrTokenMalformed = token.ErrMalformed
)

// ErrStorageUnavailable indicates the persisted key/value backend is unreachable.
var ErrStorageUnavailable = store.ErrUnavailable
