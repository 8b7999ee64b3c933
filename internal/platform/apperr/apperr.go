package apperr

import "errors"

// Kind classifies an AppError for transports that need to pick a
// presentation (ephemeral notice, log severity) without matching codes.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindConflict
	KindGone
)

type AppError struct {
	Code    string
	Message string
	Err     error
	kind    Kind
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *AppError) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func InvalidInput(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindInvalidInput)
}

func NotFound(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindNotFound)
}

func Conflict(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindConflict)
}

func Gone(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindGone)
}

func Internal(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindInternal)
}

func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal_error", "internal error", err)
}

func newAppError(code, msg string, err error, kind Kind) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Err:     err,
		kind:    kind,
	}
}
