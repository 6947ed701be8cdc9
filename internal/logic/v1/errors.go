// Package v1 provides the authentication and listing business logic for
// API version 1.
//
// Error Handling:
// Failures are represented by *Error, a closed set of kinds each mapped to
// an HTTP status and a fixed client-safe message. The client never sees the
// underlying cause; the wrapped source travels with the error so the
// logging middleware can record the full chain.
//
// Example usage:
//
//	if session == nil {
//	    return nil, NewError(KindMissingSession)
//	}
//
//	if err := hasher.Verify(password, row.PasswordHash); err != nil {
//	    return nil, WrapError(KindInvalidCredentials, err)
//	}
//
// Handlers map an error to a response via KindOf(err) and the Kind's
// HTTPStatus/ClientMessage, so the response body depends only on the kind.
package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind identifies a failure class. The zero value is the internal
// catch-all, so an unclassified error can never leak a specific message.
type Kind int

const (
	// KindInternal covers storage failures, hash parse failures, invariant
	// violations and anything uncategorized. HTTP 500.
	KindInternal Kind = iota

	// KindMissingSessionCookie: no session cookie on the request. HTTP 401.
	KindMissingSessionCookie

	// KindInvalidSessionToken: the cookie value is not a well-formed token.
	// HTTP 401.
	KindInvalidSessionToken

	// KindMissingSession: the token is well-formed but matches no stored
	// session — stale or forged, not a client omission. HTTP 401.
	KindMissingSession

	// KindSessionExpired: the session existed but its expiry has passed.
	// HTTP 401.
	KindSessionExpired

	// KindInvalidCredentials: unknown email or wrong password. Deliberately
	// one kind for both, so the response does not reveal which. HTTP 401.
	KindInvalidCredentials

	// KindPasswordRequirementsNotMet: the candidate password failed the
	// composition policy. HTTP 400.
	KindPasswordRequirementsNotMet

	// KindAlreadyAuthenticated: register/login attempted while holding a
	// valid session. HTTP 400.
	KindAlreadyAuthenticated

	// KindClientError: generic "something about your request is invalid"
	// bucket used by the logout path. HTTP 400.
	KindClientError

	// KindEmailTaken: registration with an email that is already in use.
	// HTTP 409.
	KindEmailTaken

	// KindNotFound: a listed resource does not exist. Not used by the auth
	// flows. HTTP 404.
	KindNotFound
)

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingSessionCookie, KindInvalidSessionToken, KindMissingSession,
		KindSessionExpired, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindPasswordRequirementsNotMet, KindAlreadyAuthenticated, KindClientError:
		return http.StatusBadRequest
	case KindEmailTaken:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the sanitized message for the kind. It is derived
// from the kind alone, never from a source error's text.
func (k Kind) ClientMessage() string {
	switch k {
	case KindMissingSessionCookie:
		return "Missing session cookie"
	case KindInvalidSessionToken:
		return "Invalid session token"
	case KindMissingSession:
		return "Session not found"
	case KindSessionExpired:
		return "Session expired"
	case KindInvalidCredentials:
		return "Invalid email or password"
	case KindPasswordRequirementsNotMet:
		return "Password does not meet the requirements"
	case KindAlreadyAuthenticated:
		return "Already authenticated"
	case KindClientError:
		return "Invalid request"
	case KindEmailTaken:
		return "Email already in use"
	case KindNotFound:
		return "Not found"
	default:
		return "Internal server error"
	}
}

func (k Kind) String() string {
	switch k {
	case KindMissingSessionCookie:
		return "missing_session_cookie"
	case KindInvalidSessionToken:
		return "invalid_session_token"
	case KindMissingSession:
		return "missing_session"
	case KindSessionExpired:
		return "session_expired"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindPasswordRequirementsNotMet:
		return "password_requirements_not_met"
	case KindAlreadyAuthenticated:
		return "already_authenticated"
	case KindClientError:
		return "client_error"
	case KindEmailTaken:
		return "email_taken"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified failure. The source, when present, is for
// diagnostics only and is never serialized to a client.
type Error struct {
	kind      Kind
	expiredAt time.Time // valid only for KindSessionExpired
	source    error
}

// NewError creates an Error of the given kind with no source.
func NewError(kind Kind) *Error {
	return &Error{kind: kind}
}

// WrapError creates an Error of the given kind carrying source for the
// logging side channel.
func WrapError(kind Kind, source error) *Error {
	return &Error{kind: kind, source: source}
}

// SessionExpiredError records when the session expired. The timestamp is
// internal detail; the client message stays fixed.
func SessionExpiredError(expiredAt time.Time) *Error {
	return &Error{kind: KindSessionExpired, expiredAt: expiredAt}
}

func internalError(op string, source error) *Error {
	return &Error{kind: KindInternal, source: fmt.Errorf("%s: %w", op, source)}
}

// Error returns the internal description, including the source chain.
func (e *Error) Error() string {
	switch {
	case e.kind == KindSessionExpired && !e.expiredAt.IsZero():
		return fmt.Sprintf("%s: expired at %s", e.kind, e.expiredAt.Format(time.RFC3339))
	case e.source != nil:
		return fmt.Sprintf("%s: %s", e.kind, e.source)
	default:
		return e.kind.String()
	}
}

// Kind returns the failure class.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap exposes the source for errors.Is/As over the chain.
func (e *Error) Unwrap() error { return e.source }

// Is matches two *Error values by kind, so
// errors.Is(err, NewError(KindEmailTaken)) works regardless of source.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// KindOf classifies an arbitrary error. Anything that is not an *Error in
// the chain is the internal catch-all.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}
