package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation ErrKind = "validation" // 400
	KindAuth       ErrKind = "auth"       // 401
	KindNotFound   ErrKind = "not_found"  // 404
	KindStore      ErrKind = "store"      // 400
	KindInternal   ErrKind = "internal"   // 500
)

// Error is a structured domain error.
// - Kind: coarse category, the only thing HTTP mapping looks at
// - Code: fine-grained internal reason (stable, used in logs and tests)
// - Message: summary for clients
// - Meta: optional details (field, id, ...)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Projection is what a client is allowed to see of an error.
type Projection struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
}

// Project maps any error to its public form. Every auth failure collapses to
// one "unauthorized" projection so callers cannot tell which check failed.
// Errors that are not *Error become internal_error with no detail.
func Project(err error) Projection {
	var de *Error
	if !errors.As(err, &de) {
		return Projection{Kind: KindInternal, Code: "internal_error", Message: "internal error"}
	}

	switch de.Kind {
	case KindAuth:
		return Projection{Kind: KindAuth, Code: "unauthorized", Message: "unauthorized"}
	case KindValidation, KindNotFound, KindStore, KindInternal:
		return Projection{Kind: de.Kind, Code: de.Code, Message: de.Message, Meta: de.Meta}
	default:
		return Projection{Kind: KindInternal, Code: "internal_error", Message: "internal error"}
	}
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrBodyTooLarge(limit int64) *Error {
	return WithMeta(New(KindValidation, "body_too_large", "request body too large"), map[string]string{
		"limit": strconv.FormatInt(limit, 10),
	})
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrPasswordTooLong() *Error {
	return ErrInvalidField("password", "must be at most "+strconv.Itoa(MaxPasswordBytes)+" bytes")
}

// ErrInvalidID is returned before any store access when an id is malformed.
func ErrInvalidID(id string) *Error {
	return WithMeta(New(KindValidation, "invalid_id", id+" is not valid"), map[string]string{
		"id": id,
	})
}

// Duplicate registrations are a client error, not a conflict, but keep a
// distinct code.
func ErrEmailAlreadyExists() *Error {
	return New(KindValidation, "email_already_exists", "email already registered")
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for login failures to avoid user enumeration.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenRevoked() *Error {
	return New(KindAuth, "token_revoked", "token has been revoked")
}

// Token verified but its subject no longer exists.
func ErrIdentityUnknown() *Error {
	return New(KindAuth, "identity_unknown", "identity not found")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// Also used for todos owned by someone else.
func ErrTodoNotFound() *Error {
	return New(KindNotFound, "todo_not_found", "todo not found")
}

// ----------------------
// Store (400, raw message)
// ----------------------

func ErrStore(cause error) *Error {
	msg := "store error"
	if cause != nil {
		msg = cause.Error()
	}
	return Wrap(KindStore, "store_error", msg, cause)
}

// ----------------------
// Internal (500)
// ----------------------

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
