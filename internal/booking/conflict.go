package booking

import (
	"context"
	"fmt"

	"gymconnect/internal/apperr"
	"gymconnect/internal/availability"
	"gymconnect/internal/slot"
)

// ConflictChecker decides whether a trainer can take a session at a given
// date and time.
type ConflictChecker struct {
	windows availability.Store
}

func NewConflictChecker(windows availability.Store) *ConflictChecker {
	return &ConflictChecker{windows: windows}
}

// IsBookable returns nil when rng on date lies inside one of the trainer's
// available windows and overlaps none of the bookings returned by existing.
// Callers holding a transaction pass its repository so the check sees the
// same snapshot the insert will.
func (c *ConflictChecker) IsBookable(ctx context.Context, existing ActiveBookingLister, trainerID string, date slot.Date, rng slot.Range) error {
	if !rng.Valid() {
		return apperr.ErrInvalidRange
	}

	windows, err := c.windows.WindowsFor(ctx, trainerID, date.Weekday())
	if err != nil {
		return apperr.Storage(err)
	}

	inside := false
	for _, w := range windows {
		if w.Available && w.Range().Contains(rng) {
			inside = true
			break
		}
	}
	if !inside {
		return apperr.New(apperr.CodeOutsideAvailability,
			fmt.Sprintf("%s on %s is outside the trainer's availability", rng, date))
	}

	bookings, err := existing.ActiveForTrainerOn(ctx, trainerID, date)
	if err != nil {
		return apperr.Storage(err)
	}

	for _, b := range bookings {
		if b.Status.Active() && b.Range().Overlaps(rng) {
			return apperr.New(apperr.CodeSlotConflict,
				fmt.Sprintf("%s overlaps an existing booking at %s", rng, b.Range()))
		}
	}

	return nil
}
