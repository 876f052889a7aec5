package subscription

import (
	"context"
	"errors"
	"time"

	"gymconnect/internal/slot"
)

var ErrStatusChanged = errors.New("subscription status changed concurrently")

type Repository interface {
	Insert(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	CompareAndSetStatus(ctx context.Context, id string, from, to Status, now time.Time) error
	// ListDue returns active subscriptions whose end date is before today.
	ListDue(ctx context.Context, today slot.Date) ([]Subscription, error)
	ListForGym(ctx context.Context, gymID string) ([]WithSubscriber, error)
	ListForUser(ctx context.Context, userID string) ([]Subscription, error)
}
