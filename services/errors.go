package services

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeNotAParticipant  Code = "NOT_A_PARTICIPANT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeConflict         Code = "CONFLICT"
	CodeInternal         Code = "INTERNAL"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Constructors
func NewError(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func WrapError(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func Unauthenticated(msg string) error {
	return NewError(CodeUnauthenticated, msg)
}

func NotAParticipant(msg string) error {
	return NewError(CodeNotAParticipant, msg)
}

func NotFound(msg string) error {
	return NewError(CodeNotFound, msg)
}

func InvalidOperation(msg string) error {
	return NewError(CodeInvalidOperation, msg)
}

func Validation(msg string) error {
	return NewError(CodeValidation, msg)
}

func Conflict(msg string) error {
	return NewError(CodeConflict, msg)
}

func Internal(msg string, cause error) error {
	return WrapError(CodeInternal, msg, cause)
}

// CodeOf extracts the error code, defaulting to CodeUnknown.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
