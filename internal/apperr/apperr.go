package apperr

import (
	"errors"
	"net/http"
)

// Code is the machine readable reason attached to every rejection.
type Code string

const (
	CodeInvalidRange        Code = "invalid_range"
	CodeOutsideAvailability Code = "outside_availability"
	CodeSlotConflict        Code = "slot_conflict"
	CodeInvalidTransition   Code = "invalid_transition"
	CodeUnauthorized        Code = "unauthorized"
	CodeNotFound            Code = "not_found"
	CodeInvalidRating       Code = "invalid_rating"
	CodeBookingNotEligible  Code = "booking_not_eligible"
	CodeInvalidRequest      Code = "invalid_request"
	CodeStorageFailure      Code = "storage_failure"
)

var httpStatus = map[Code]int{
	CodeInvalidRange:        http.StatusBadRequest,
	CodeOutsideAvailability: http.StatusConflict,
	CodeSlotConflict:        http.StatusConflict,
	CodeInvalidTransition:   http.StatusConflict,
	CodeUnauthorized:        http.StatusForbidden,
	CodeNotFound:            http.StatusNotFound,
	CodeInvalidRating:       http.StatusBadRequest,
	CodeBookingNotEligible:  http.StatusUnprocessableEntity,
	CodeInvalidRequest:      http.StatusBadRequest,
	CodeStorageFailure:      http.StatusInternalServerError,
}

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code, so callers can match
// against the sentinels below regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidRange        = New(CodeInvalidRange, "start must be before end")
	ErrOutsideAvailability = New(CodeOutsideAvailability, "requested time is outside the trainer's availability")
	ErrSlotConflict        = New(CodeSlotConflict, "requested time overlaps an existing booking")
	ErrInvalidTransition   = New(CodeInvalidTransition, "status transition is not allowed")
	ErrUnauthorized        = New(CodeUnauthorized, "not allowed to perform this action")
	ErrNotFound            = New(CodeNotFound, "resource not found")
	ErrInvalidRating       = New(CodeInvalidRating, "rating must be an integer between 1 and 5")
	ErrBookingNotEligible  = New(CodeBookingNotEligible, "booking is not eligible for review")
	ErrInvalidRequest      = New(CodeInvalidRequest, "invalid request")
	ErrStorageFailure      = New(CodeStorageFailure, "storage failure")
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Storage wraps an underlying persistence error. Errors that already carry a
// code pass through untouched.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(CodeStorageFailure, "storage failure", err)
}

func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStorageFailure
}

func HTTPStatus(code Code) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// PublicMessage hides wrapped storage details from API clients.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code == CodeStorageFailure {
		return ErrStorageFailure.Message
	}
	return appErr.Message
}
