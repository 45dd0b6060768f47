package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrAlreadyCancelled guards double cancellation of a tour booking.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrVehicleUnavailable is returned when a vehicle booking would overlap
	// an approved booking for the same vehicle.
	ErrVehicleUnavailable = errors.New("vehicle already booked for these dates")

	// ErrDestinationHasTours blocks deleting a destination that still owns tours.
	ErrDestinationHasTours = errors.New("destination has existing tours")

	// ErrTourHasBookings blocks deleting a tour that has bookings.
	ErrTourHasBookings = errors.New("tour has existing bookings")

	// ErrAlreadyReviewed guards the one-review-per-user-per-tour rule.
	ErrAlreadyReviewed = errors.New("tour already reviewed by this user")

	// ErrReviewNotAllowed is returned when no confirmed booking backs a review.
	ErrReviewNotAllowed = errors.New("review requires a confirmed booking")

	// ErrInvalidOTP is returned for unknown or expired password-reset codes.
	ErrInvalidOTP = errors.New("invalid or expired reset code")
)

// InsufficientSeatsError reports how many seats remain on a departure when a
// booking asks for more than that.
type InsufficientSeatsError struct {
	Remaining int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough seats available, only %d seats left", e.Remaining)
}
