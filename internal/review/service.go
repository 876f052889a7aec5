package review

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/auth"
	"gymconnect/internal/booking"
	"gymconnect/internal/logger"
	"gymconnect/internal/metrics"

	"github.com/google/uuid"
)

// BookingLookup resolves the booking a review refers to.
type BookingLookup interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
}

type Service interface {
	Submit(ctx context.Context, actor auth.Identity, req SubmitRequest) (*Review, error)
	AverageRating(ctx context.Context, profileID string) (RatingSummary, error)
	ListFor(ctx context.Context, profileID string) ([]Review, error)
}

type service struct {
	repo     Repository
	bookings BookingLookup
	now      func() time.Time
}

func NewService(repo Repository, bookings BookingLookup) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		now:      time.Now,
	}
}

func (s *service) Submit(ctx context.Context, actor auth.Identity, req SubmitRequest) (*Review, error) {
	if !actor.Can(auth.CapSubmitReview) {
		return nil, apperr.ErrUnauthorized
	}
	if req.Rating != math.Trunc(req.Rating) || req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.ErrInvalidRating
	}
	if req.ReviewedID == "" {
		return nil, apperr.New(apperr.CodeInvalidRequest, "reviewed_id is required")
	}
	if req.ReviewedID == actor.ProfileID {
		return nil, apperr.New(apperr.CodeUnauthorized, "cannot review yourself")
	}

	if req.BookingID != nil {
		if err := s.checkBooking(ctx, actor, *req.BookingID, req.ReviewedID); err != nil {
			return nil, err
		}
	}

	rv := &Review{
		ID:         uuid.NewString(),
		ReviewerID: actor.ProfileID,
		ReviewedID: req.ReviewedID,
		BookingID:  req.BookingID,
		Rating:     int(req.Rating),
		Comment:    req.Comment,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, rv); err != nil {
		return nil, apperr.Storage(err)
	}

	metrics.RecordReview(strconv.Itoa(rv.Rating))
	logger.Info("review submitted",
		"review_id", rv.ID,
		"reviewer_id", rv.ReviewerID,
		"reviewed_id", rv.ReviewedID,
		"rating", rv.Rating,
	)
	return rv, nil
}

// checkBooking requires the booking to be completed, the reviewer to be one
// participant and the reviewed profile to be the other.
func (s *service) checkBooking(ctx context.Context, actor auth.Identity, bookingID, reviewedID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.New(apperr.CodeBookingNotEligible, "booking does not exist")
	}
	if err != nil {
		return apperr.Storage(err)
	}

	var counterpart string
	switch b.PartyOf(actor.ProfileID) {
	case booking.PartyUser:
		counterpart = b.TrainerID
	case booking.PartyTrainer:
		counterpart = b.UserID
	default:
		return apperr.ErrUnauthorized
	}

	if b.Status != booking.StatusCompleted {
		return apperr.New(apperr.CodeBookingNotEligible, "only completed bookings can be reviewed")
	}
	if reviewedID != counterpart {
		return apperr.New(apperr.CodeBookingNotEligible, "reviewed profile did not take part in this booking")
	}
	return nil
}

func (s *service) AverageRating(ctx context.Context, profileID string) (RatingSummary, error) {
	ratings, err := s.repo.RatingsFor(ctx, profileID)
	if err != nil {
		return RatingSummary{}, apperr.Storage(err)
	}

	avg, count := Average(ratings)
	return RatingSummary{ProfileID: profileID, Average: avg, Count: count}, nil
}

func (s *service) ListFor(ctx context.Context, profileID string) ([]Review, error) {
	reviews, err := s.repo.ListFor(ctx, profileID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return reviews, nil
}

// Average returns the arithmetic mean of ratings and their count; (0, 0)
// for none.
func Average(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}
