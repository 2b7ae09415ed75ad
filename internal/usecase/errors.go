package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrValidation is wrapped by every input rejection so handlers can map the
// whole family to 400 with errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	ErrMissingDoctorID = fmt.Errorf("%w: doctor_id is required", ErrValidation)
	ErrMissingDate     = fmt.Errorf("%w: date is required", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrValidation)
	ErrInvalidTimeSlot = fmt.Errorf("%w: time is not a bookable slot", ErrValidation)
	ErrDateInPast      = fmt.Errorf("%w: cannot book a time in the past", ErrValidation)
	ErrNotesTooLong    = fmt.Errorf("%w: notes are too long", ErrValidation)
	ErrSameSlot        = fmt.Errorf("%w: new time is the same as the current one", ErrValidation)
	ErrMissingQuery    = fmt.Errorf("%w: query is required", ErrValidation)
	ErrInvalidRating   = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidUserID   = fmt.Errorf("%w: user_id must be a UUID", ErrValidation)

	ErrInvalidDateRange = fmt.Errorf("%w: to must not be before from", ErrValidation)
)

var (
	// ErrStorage hides infrastructure failures; the cause is only logged.
	ErrStorage = errors.New("storage failure")
	// ErrTimeout is returned when a read ran out of time.
	ErrTimeout = errors.New("request timed out")
	// ErrOutcomeUnknown is returned when a write ran out of time. The write
	// is atomic, so it either fully happened or not at all.
	ErrOutcomeUnknown = errors.New("request timed out; check your appointments before retrying")
)

func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// storageError logs the cause and returns the caller-safe error.
func storageError(log *logrus.Logger, op string, err error, mutation bool) error {
	if isContextError(err) {
		log.Warnf("Timed out while trying to %s: %+v", op, err)
		if mutation {
			return ErrOutcomeUnknown
		}
		return ErrTimeout
	}
	log.Warnf("Failed to %s: %+v", op, err)
	return ErrStorage
}
