package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/auth"
	"gymconnect/internal/availability"
	"gymconnect/internal/logger"
	"gymconnect/internal/metrics"
	"gymconnect/internal/slot"

	"github.com/google/uuid"
)

// maxStatsSpan bounds the analytics window.
const maxStatsSpan = 366 * 24 * time.Hour

type Service interface {
	Create(ctx context.Context, actor auth.Identity, req CreateRequest) (*Booking, error)
	Transition(ctx context.Context, actor auth.Identity, bookingID string, to Status) (*Booking, error)
	Get(ctx context.Context, actor auth.Identity, bookingID string) (*Booking, error)
	ListFor(ctx context.Context, filter ListFilter) ([]Booking, error)
	IsBookable(ctx context.Context, trainerID string, date slot.Date, rng slot.Range) error
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
	StatsByDay(ctx context.Context, actor auth.Identity, from, to slot.Date) ([]DayStats, error)
}

type service struct {
	repo    Repository
	checker *ConflictChecker
	now     func() time.Time
}

func NewService(repo Repository, windows availability.Store) Service {
	return &service{
		repo:    repo,
		checker: NewConflictChecker(windows),
		now:     time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Identity, req CreateRequest) (*Booking, error) {
	b, err := s.create(ctx, actor, req)
	if err != nil {
		metrics.RecordBookingRejection(string(apperr.CodeOf(err)))
		return nil, err
	}

	metrics.RecordBookingCreated(string(b.SessionType))
	logger.Info("booking created",
		"booking_id", b.ID,
		"user_id", b.UserID,
		"trainer_id", b.TrainerID,
		"date", b.Date.String(),
		"range", b.Range().String(),
	)
	return b, nil
}

func (s *service) create(ctx context.Context, actor auth.Identity, req CreateRequest) (*Booking, error) {
	if !actor.Can(auth.CapRequestBooking) {
		return nil, apperr.ErrUnauthorized
	}
	if req.TrainerID == actor.ProfileID {
		return nil, apperr.New(apperr.CodeUnauthorized, "cannot book a session with yourself")
	}

	rng := req.Range()
	if !rng.Valid() {
		return nil, apperr.ErrInvalidRange
	}
	if req.Date.IsZero() {
		return nil, apperr.New(apperr.CodeInvalidRequest, "date is required")
	}

	sessionType, err := ParseSessionType(req.SessionType)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &Booking{
		ID:          uuid.NewString(),
		UserID:      actor.ProfileID,
		TrainerID:   req.TrainerID,
		Date:        req.Date,
		StartTime:   rng.Start,
		EndTime:     rng.End,
		SessionType: sessionType,
		Status:      StatusPending,
		PriceCents:  req.PriceCents,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.WithTransaction(ctx, func(tx TxRepository) error {
		if err := tx.LockTrainerDay(ctx, b.TrainerID, b.Date); err != nil {
			return err
		}
		if err := s.checker.IsBookable(ctx, tx, b.TrainerID, b.Date, rng); err != nil {
			return err
		}
		return tx.Insert(ctx, b)
	})
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return b, nil
}

func (s *service) Transition(ctx context.Context, actor auth.Identity, bookingID string, to Status) (*Booking, error) {
	if !actor.Can(auth.CapTransitionBooking) {
		return nil, apperr.ErrUnauthorized
	}
	if !to.Valid() {
		return nil, apperr.New(apperr.CodeInvalidTransition, fmt.Sprintf("unknown status %q", string(to)))
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	party := b.PartyOf(actor.ProfileID)
	if party == 0 {
		return nil, apperr.ErrUnauthorized
	}

	allowed, ok := Edge(b.Status, to)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidTransition,
			fmt.Sprintf("cannot move booking from %s to %s", b.Status, to))
	}
	if !allowed.Allows(party) {
		return nil, apperr.New(apperr.CodeUnauthorized,
			fmt.Sprintf("only the %s may move a booking from %s to %s", partyName(allowed), b.Status, to))
	}

	now := s.now().UTC()
	if err := s.repo.CompareAndSetStatus(ctx, b.ID, b.Status, to, now); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, apperr.Wrap(apperr.CodeInvalidTransition, "booking status changed, reload and retry", err)
		}
		return nil, apperr.Storage(err)
	}

	metrics.RecordBookingTransition(string(b.Status), string(to))
	logger.Info("booking transitioned",
		"booking_id", b.ID,
		"from", b.Status.String(),
		"to", to.String(),
		"actor_id", actor.ProfileID,
	)

	b.Status = to
	b.UpdatedAt = now
	return b, nil
}

func (s *service) Get(ctx context.Context, actor auth.Identity, bookingID string) (*Booking, error) {
	if !actor.Can(auth.CapViewBookings) {
		return nil, apperr.ErrUnauthorized
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if b.PartyOf(actor.ProfileID) == 0 {
		return nil, apperr.ErrUnauthorized
	}
	return b, nil
}

func (s *service) ListFor(ctx context.Context, filter ListFilter) ([]Booking, error) {
	bookings, err := s.repo.ListFor(ctx, filter)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	return bookings, nil
}

func (s *service) IsBookable(ctx context.Context, trainerID string, date slot.Date, rng slot.Range) error {
	return s.checker.IsBookable(ctx, s.repo, trainerID, date, rng)
}

// CompleteElapsed marks confirmed bookings whose session has ended as
// completed. Rows changed concurrently are skipped.
func (s *service) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	elapsed, err := s.repo.ListElapsedConfirmed(ctx, now.UTC())
	if err != nil {
		return 0, apperr.Storage(err)
	}

	completed := 0
	for _, b := range elapsed {
		err := s.repo.CompareAndSetStatus(ctx, b.ID, StatusConfirmed, StatusCompleted, now.UTC())
		if errors.Is(err, ErrStatusChanged) {
			continue
		}
		if err != nil {
			return completed, apperr.Storage(err)
		}
		completed++
		metrics.RecordBookingTransition(string(StatusConfirmed), string(StatusCompleted))
	}

	if completed > 0 {
		logger.Info("elapsed bookings completed", "count", completed)
	}
	return completed, nil
}

func (s *service) StatsByDay(ctx context.Context, actor auth.Identity, from, to slot.Date) ([]DayStats, error) {
	if !actor.Can(auth.CapViewBookingAnalytics) {
		return nil, apperr.ErrUnauthorized
	}
	if to.Before(from) {
		return nil, apperr.New(apperr.CodeInvalidRange, "from must not be after to")
	}
	if to.Sub(from.Time) > maxStatsSpan {
		return nil, apperr.New(apperr.CodeInvalidRequest, "analytics range is limited to one year")
	}

	stats, err := s.repo.StatsByDay(ctx, actor.ProfileID, from, to)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return stats, nil
}

func partyName(p Party) string {
	switch p {
	case PartyUser:
		return "user"
	case PartyTrainer:
		return "trainer"
	default:
		return "participants"
	}
}
