package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
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

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. Admission rejections carry a
// distinct code each so clients can branch on the reason.
var (
	ErrNotFound             = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrSectionNotFound      = New("SECTION_NOT_FOUND", http.StatusNotFound, "no sections found")
	ErrProfessorNotFound    = New("PROFESSOR_NOT_FOUND", http.StatusNotFound, "professor not found")
	ErrWaitlistEntryMissing = New("WAITLIST_ENTRY_NOT_FOUND", http.StatusNotFound, "no such waitlist entry exists")
	ErrWindowClosed         = New("ENROLLMENT_WINDOW_CLOSED", http.StatusBadRequest, "trying to enroll outside the enrollment window")
	ErrAlreadyEnrolled      = New("ALREADY_ENROLLED", http.StatusBadRequest, "student already enrolled in this section")
	ErrAlreadyWaitlisted    = New("ALREADY_WAITLISTED", http.StatusBadRequest, "student already waitlisted for this section")
	ErrSectionFull          = New("SECTION_AND_WAITLIST_FULL", http.StatusBadRequest, "class capacity and waitlist is full, cannot enroll currently")
	ErrConflict             = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation           = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal             = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss            = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
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
