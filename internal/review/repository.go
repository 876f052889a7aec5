package review

import (
	"context"
	"fmt"

	"gymconnect/internal/apperr"
	"gymconnect/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, rv *Review) error {
	query := `
		INSERT INTO reviews (id, reviewer_id, reviewed_id, booking_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		rv.ID, rv.ReviewerID, rv.ReviewedID, rv.BookingID, rv.Rating, rv.Comment, rv.CreatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Wrap(apperr.CodeBookingNotEligible, "booking already reviewed", err)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *repository) RatingsFor(ctx context.Context, profileID string) ([]int, error) {
	ratings := []int{}
	if err := r.db.SelectContext(ctx, &ratings,
		`SELECT rating FROM reviews WHERE reviewed_id = $1`, profileID,
	); err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	return ratings, nil
}

func (r *repository) ListFor(ctx context.Context, profileID string) ([]Review, error) {
	query := `
		SELECT id, reviewer_id, reviewed_id, booking_id, rating, comment, created_at
		FROM reviews
		WHERE reviewed_id = $1
		ORDER BY created_at DESC
	`
	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, profileID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
