package services

import (
	"errors"

	"hotel-booking-api/apperror"
	"hotel-booking-api/repository"
)

// notFound maps a repository miss onto an entity specific error. Any other
// failure goes through storeError.
func notFound(err error, sentinel *apperror.Error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.Wrap(sentinel, format, args...)
	}
	return storeError(err)
}

// storeError keeps classified errors and turns the rest into InternalError.
func storeError(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.WithCause(apperror.ErrInternal, err)
}
