// Package apperror defines the application error taxonomy shared by services
// and controllers. Each error carries a stable code and the HTTP status it maps to.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func New(status int, code, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so a wrapped copy still satisfies errors.Is against its sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidIDFormat       = New(http.StatusBadRequest, "InvalidIdFormat", "Invalid ID format")
	ErrValidation            = New(http.StatusBadRequest, "ValidationFailed", "Validation failed")
	ErrDuplicateName         = New(http.StatusBadRequest, "DuplicateName", "Hotel with the same name already exists")
	ErrDuplicateUsername     = New(http.StatusBadRequest, "DuplicateUsername", "User with these credentials already exists")
	ErrInvalidCredentials    = New(http.StatusBadRequest, "InvalidCredentials", "User or password incorrect")
	ErrAlreadyBooked         = New(http.StatusBadRequest, "AlreadyBooked", "Accommodation already booked by this user")
	ErrNotAvailable          = New(http.StatusBadRequest, "NotAvailable", "Accommodation is not available at the moment")
	ErrUnauthenticated       = New(http.StatusUnauthorized, "Unauthenticated", "Unauthorized")
	ErrForbidden             = New(http.StatusForbidden, "Forbidden", "Forbidden")
	ErrHotelNotFound         = New(http.StatusNotFound, "HotelNotFound", "Hotel not found")
	ErrAccommodationNotFound = New(http.StatusNotFound, "AccommodationNotFound", "Accommodation not found")
	ErrUserNotFound          = New(http.StatusNotFound, "UserNotFound", "User not found")
	ErrRouteNotFound         = New(http.StatusNotFound, "RouteNotFound", "Route not found")
	ErrAccommodationBooked   = New(http.StatusConflict, "AccommodationBooked", "Accommodation is currently booked")
	ErrHotelAlreadyManaged   = New(http.StatusConflict, "HotelAlreadyManaged", "Hotel already has a manager")
	ErrTooManyRequests       = New(http.StatusTooManyRequests, "TooManyRequests", "Rate limit exceeded")
	ErrServiceUnavailable    = New(http.StatusServiceUnavailable, "ServiceUnavailable", "Service Unavailable")
	ErrInternal              = New(http.StatusInternalServerError, "InternalError", "Internal Server Error")
)

// Wrap returns a copy of sentinel with a more specific message.
func Wrap(sentinel *Error, format string, args ...any) *Error {
	return &Error{
		Code:    sentinel.Code,
		Status:  sentinel.Status,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithCause returns a copy of sentinel that keeps err as its cause.
func WithCause(sentinel *Error, err error) *Error {
	return &Error{
		Code:    sentinel.Code,
		Status:  sentinel.Status,
		Message: sentinel.Message,
		Err:     err,
	}
}

// From extracts an *Error from err; anything unclassified becomes ErrInternal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return WithCause(ErrInternal, err)
}

// PublicMessage is the text safe to show to a client. Server-side causes are hidden.
func (e *Error) PublicMessage() string {
	if e.Status >= http.StatusInternalServerError {
		return e.Message
	}
	if e.Err != nil {
		return e.Error()
	}
	return e.Message
}
