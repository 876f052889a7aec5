package availability

import (
	"context"
	"time"
)

// Store is the read side used by booking conflict checks.
type Store interface {
	// WindowsFor returns the trainer's windows for day ordered by start time.
	WindowsFor(ctx context.Context, trainerID string, day time.Weekday) ([]Window, error)
}

type Repository interface {
	Store
	ListForTrainer(ctx context.Context, trainerID string) ([]Window, error)
	ReplaceDay(ctx context.Context, trainerID string, day time.Weekday, windows []Window) error
}
