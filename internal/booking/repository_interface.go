package booking

import (
	"context"
	"errors"
	"time"

	"gymconnect/internal/slot"
)

// ErrStatusChanged is returned by CompareAndSetStatus when the row no longer
// holds the expected status.
var ErrStatusChanged = errors.New("booking status changed concurrently")

// ActiveBookingLister loads the pending and confirmed bookings of a trainer on one date.
type ActiveBookingLister interface {
	ActiveForTrainerOn(ctx context.Context, trainerID string, date slot.Date) ([]Booking, error)
}

// TxRepository is the view of the repository available inside WithTransaction.
type TxRepository interface {
	ActiveBookingLister
	// LockTrainerDay serialises writers for one trainer and date until the
	// transaction ends.
	LockTrainerDay(ctx context.Context, trainerID string, date slot.Date) error
	Insert(ctx context.Context, b *Booking) error
}

type Repository interface {
	ActiveBookingLister
	WithTransaction(ctx context.Context, fn func(tx TxRepository) error) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListFor(ctx context.Context, filter ListFilter) ([]Booking, error)
	CompareAndSetStatus(ctx context.Context, id string, from, to Status, now time.Time) error
	ListElapsedConfirmed(ctx context.Context, now time.Time) ([]Booking, error)
	StatsByDay(ctx context.Context, trainerID string, from, to slot.Date) ([]DayStats, error)
}
