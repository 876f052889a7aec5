package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/auth"
	"gymconnect/internal/logger"
	"gymconnect/internal/metrics"
	"gymconnect/internal/slot"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, actor auth.Identity, req CreateRequest) (*Subscription, error)
	Cancel(ctx context.Context, actor auth.Identity, subscriptionID string) (*Subscription, error)
	ExpireDue(ctx context.Context, today slot.Date) (int, error)
	ListForGym(ctx context.Context, actor auth.Identity) ([]WithSubscriber, error)
	ListForUser(ctx context.Context, actor auth.Identity) ([]Subscription, error)
	Plans() []Plan
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

// Create issues a subscription at the acting gym. Without an end date the
// plan's length is used.
func (s *service) Create(ctx context.Context, actor auth.Identity, req CreateRequest) (*Subscription, error) {
	if !actor.Can(auth.CapManageSubscriptions) {
		return nil, apperr.ErrUnauthorized
	}
	if req.UserID == actor.ProfileID {
		return nil, apperr.New(apperr.CodeInvalidRequest, "a gym cannot subscribe to itself")
	}

	plan, err := findPlan(req.Type)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	start := req.StartDate
	if start.IsZero() {
		start = slot.DateOf(now)
	}
	end := slot.DateOf(start.AddDate(0, plan.Months, 0))
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if !start.Before(end) {
		return nil, apperr.New(apperr.CodeInvalidRange, "start_date must be before end_date")
	}

	sub := &Subscription{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		GymID:     actor.ProfileID,
		Type:      plan.Type,
		Status:    StatusActive,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, sub); err != nil {
		return nil, apperr.Storage(err)
	}

	metrics.RecordSubscription(string(sub.Type))
	logger.Info("subscription created",
		"subscription_id", sub.ID,
		"user_id", sub.UserID,
		"gym_id", sub.GymID,
		"type", string(sub.Type),
	)
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, actor auth.Identity, subscriptionID string) (*Subscription, error) {
	if !actor.Can(auth.CapCancelSubscription) {
		return nil, apperr.ErrUnauthorized
	}

	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	party := sub.PartyOf(actor.ProfileID)
	if party == 0 {
		return nil, apperr.ErrUnauthorized
	}

	allowed, ok := Edge(sub.Status, StatusCancelled)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidTransition,
			fmt.Sprintf("cannot cancel a subscription that is %s", sub.Status))
	}
	if allowed&party == 0 {
		return nil, apperr.ErrUnauthorized
	}

	now := s.now().UTC()
	if err := s.repo.CompareAndSetStatus(ctx, sub.ID, sub.Status, StatusCancelled, now); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, apperr.Wrap(apperr.CodeInvalidTransition, "subscription status changed, reload and retry", err)
		}
		return nil, apperr.Storage(err)
	}

	metrics.RecordSubscriptionTransition(string(StatusCancelled))
	logger.Info("subscription cancelled", "subscription_id", sub.ID, "actor_id", actor.ProfileID)

	sub.Status = StatusCancelled
	sub.UpdatedAt = now
	return sub, nil
}

// ExpireDue moves every active subscription that ended before today to
// expired. Rows cancelled in the meantime are skipped.
func (s *service) ExpireDue(ctx context.Context, today slot.Date) (int, error) {
	due, err := s.repo.ListDue(ctx, today)
	if err != nil {
		return 0, apperr.Storage(err)
	}

	now := s.now().UTC()
	expired := 0
	for _, sub := range due {
		err := s.repo.CompareAndSetStatus(ctx, sub.ID, StatusActive, StatusExpired, now)
		if errors.Is(err, ErrStatusChanged) {
			continue
		}
		if err != nil {
			return expired, apperr.Storage(err)
		}
		expired++
		metrics.RecordSubscriptionTransition(string(StatusExpired))
	}

	if expired > 0 {
		logger.Info("subscriptions expired", "count", expired, "today", today.String())
	}
	return expired, nil
}

func (s *service) ListForGym(ctx context.Context, actor auth.Identity) ([]WithSubscriber, error) {
	if !actor.Can(auth.CapManageSubscriptions) {
		return nil, apperr.ErrUnauthorized
	}

	subs, err := s.repo.ListForGym(ctx, actor.ProfileID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return subs, nil
}

func (s *service) ListForUser(ctx context.Context, actor auth.Identity) ([]Subscription, error) {
	if !actor.Can(auth.CapViewOwnSubscriptions) {
		return nil, apperr.ErrUnauthorized
	}

	subs, err := s.repo.ListForUser(ctx, actor.ProfileID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return subs, nil
}

func (s *service) Plans() []Plan {
	return Plans()
}
