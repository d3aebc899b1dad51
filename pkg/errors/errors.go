package errors

import (
	"errors"
	"fmt"
)

// Error represents a typed domain error carrying a stable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so clones still match their sentinel.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	var t *Error
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound            = New("NOT_FOUND", "resource not found")
	ErrDuplicateKey        = New("DUPLICATE_KEY", "duplicate key")
	ErrDuplicateEnrollment = New("DUPLICATE_ENROLLMENT", "duplicate enrollment")
	ErrCreditLimitExceeded = New("CREDIT_LIMIT_EXCEEDED", "credit limit exceeded")
	ErrInvalidConstruction = New("INVALID_CONSTRUCTION", "invalid construction")
	ErrValidation          = New("VALIDATION_ERROR", "validation failed")
	ErrInternal            = New("INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var dup *DuplicateEnrollmentError
	if errors.As(err, &dup) {
		return Clone(ErrDuplicateEnrollment, dup.Error())
	}
	var limit *CreditLimitError
	if errors.As(err, &limit) {
		return Clone(ErrCreditLimitExceeded, limit.Error())
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// DuplicateEnrollmentError reports a second active enrollment for the same
// student, course and semester.
type DuplicateEnrollmentError struct {
	StudentID  string
	CourseCode string
	Semester   string
}

func (e *DuplicateEnrollmentError) Error() string {
	return fmt.Sprintf("student %s is already enrolled in course %s for %s semester", e.StudentID, e.CourseCode, e.Semester)
}

// Unwrap lets errors.Is match ErrDuplicateEnrollment.
func (e *DuplicateEnrollmentError) Unwrap() error {
	return ErrDuplicateEnrollment
}

// CreditLimitError reports an enrollment that would push a student's semester
// load over the limit.
type CreditLimitError struct {
	StudentID string
	Current   int
	Attempted int
	Limit     int
}

func (e *CreditLimitError) Error() string {
	return fmt.Sprintf("credit limit exceeded for student %s. Current: %d, Attempted: %d, Max: %d", e.StudentID, e.Current, e.Attempted, e.Limit)
}

// Unwrap lets errors.Is match ErrCreditLimitExceeded.
func (e *CreditLimitError) Unwrap() error {
	return ErrCreditLimitExceeded
}
