package entity

import (
	"fmt"
	"time"
)

// transitions — единственная таблица допустимых переходов статусов.
// Любой переход, которого здесь нет, отклоняется с ErrInvalidTransition.
var transitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusScheduled: {
		BookingStatusConfirmed:   true,
		BookingStatusCompleted:   true,
		BookingStatusCancelled:   true,
		BookingStatusRescheduled: true,
	},
	BookingStatusConfirmed: {
		BookingStatusCompleted:   true,
		BookingStatusCancelled:   true,
		BookingStatusRescheduled: true,
	},
}

// ValidateTransition проверяет переход from -> to для бронирования,
// начинающегося в demoStart. Часть переходов зависит от времени:
// подтвердить можно только до начала демо, завершить - только после.
func ValidateTransition(from, to BookingStatus, demoStart, now time.Time) error {
	if !transitions[from][to] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	switch to {
	case BookingStatusConfirmed:
		if !now.Before(demoStart) {
			return fmt.Errorf("%w: cannot confirm a demo that has already started", ErrInvalidTransition)
		}
	case BookingStatusCompleted:
		if now.Before(demoStart) {
			return fmt.Errorf("%w: cannot complete a demo before it starts", ErrInvalidTransition)
		}
	}

	return nil
}
