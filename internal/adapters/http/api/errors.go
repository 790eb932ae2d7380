package api

import (
	"errors"
	"net/http"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrVendorUnreachable = errors.New("vendor unreachable")
	ErrVendorDisabled    = errors.New("vendor not configured")
	ErrInternal          = errors.New("internal error")
)

// KindError tags an error with the operation that failed and its kind.
// The kind decides the status code; Op is for logs only.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// NewKind returns a bare error of kind raised by op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// statusFor maps an error kind to its HTTP status and response code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrVendorUnreachable):
		return http.StatusBadGateway, "vendor_unreachable"
	case errors.Is(err, ErrVendorDisabled):
		return http.StatusServiceUnavailable, "vendor_disabled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeKindError writes err using the status of its kind. Internal errors
// never expose their cause.
func writeKindError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, code, ErrInternal)
		return
	}
	writeError(w, status, code, err)
}
