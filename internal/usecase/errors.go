package usecase

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalid
	KindNotFound
	KindUnauthenticated
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	}
	return "internal"
}

// AppError is the error every usecase returns to the HTTP layer.
// Message is safe to show to clients; Err is only logged.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func Invalid(msg string) *AppError {
	return &AppError{Kind: KindInvalid, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Unauthenticated(msg string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}

// AsAppError finds an *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf is KindInternal for anything that is not an *AppError.
func KindOf(err error) ErrorKind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// wrap passes AppErrors through and turns anything else into Internal.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsAppError(err); ok {
		return err
	}
	return Internal(err)
}
