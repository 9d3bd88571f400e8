package entity

import "errors"

var (
	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSlotConflict      = errors.New("slot is already booked")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrInvalidStatus     = errors.New("invalid booking status")

	// Slot errors
	ErrInvalidSlotFormat = errors.New("invalid slot identifier")
	ErrSlotOutsideWindow = errors.New("slot is outside the booking window")

	// Contact errors
	ErrContactNotFound = errors.New("contact not found")

	// General errors
	ErrInvalidInput   = errors.New("invalid input")
	ErrStorageFailure = errors.New("storage failure")
)
