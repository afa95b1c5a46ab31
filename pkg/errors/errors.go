package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the family the transport layer maps to a status code.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindConflict
	KindUnauthorized
	KindInternal
)

// Machine-checkable error codes.
const (
	CodeDoctorNotFound     = "DOCTOR_NOT_FOUND"
	CodePatientNotFound    = "PATIENT_NOT_FOUND"
	CodeVisitNotFound      = "VISIT_NOT_FOUND"
	CodeFacilityNotFound   = "FACILITY_NOT_FOUND"
	CodePastSlot           = "PAST_SLOT"
	CodeInvertedInterval   = "INVERTED_INTERVAL"
	CodeMisalignedSlot     = "MISALIGNED_SLOT"
	CodeInvalidPageRequest = "INVALID_PAGE_REQUEST"
	CodeSchedulingConflict = "SCHEDULING_CONFLICT"
	CodeAlreadyBooked      = "ALREADY_BOOKED"
	CodeEmailInUse         = "EMAIL_IN_USE"
	CodeFacilityNameInUse  = "FACILITY_NAME_IN_USE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternal           = "INTERNAL"
)

// AppError carries a kind for status mapping, a stable code for callers
// to match on, and a human-readable message.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(code, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(code, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: CodeInvalidCredentials, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Code: CodeInternal, Message: "internal server error", Err: err}
}

// AsAppError unwraps err to the nearest AppError, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
