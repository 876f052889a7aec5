package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/db"
	"gymconnect/internal/slot"

	"github.com/jmoiron/sqlx"
)

const subscriptionColumns = `id, user_id, gym_id, type, status, start_date, end_date, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, s *Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.UserID, s.GymID, s.Type, s.Status, s.StartDate, s.EndDate, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.Wrap(apperr.CodeNotFound, "subscriber not found", err)
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	var s Subscription
	err := r.db.GetContext(ctx, &s, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.CodeNotFound, "subscription not found")
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

func (r *repository) CompareAndSetStatus(ctx context.Context, id string, from, to Status, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $3,
		    updated_at = $4
		WHERE id = $1 AND status = $2
	`, id, from, to, now)
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	if rows == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *repository) ListDue(ctx context.Context, today slot.Date) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE status = 'active'
		  AND end_date < $1
		ORDER BY end_date ASC
	`, today)
	if err != nil {
		return nil, fmt.Errorf("list due subscriptions: %w", err)
	}
	return subs, nil
}

func (r *repository) ListForGym(ctx context.Context, gymID string) ([]WithSubscriber, error) {
	subs := []WithSubscriber{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT
		  s.id, s.user_id, s.gym_id, s.type, s.status, s.start_date, s.end_date, s.created_at, s.updated_at,
		  p.name  AS user_name,
		  p.email AS user_email
		FROM subscriptions s
		JOIN profiles p ON p.id = s.user_id
		WHERE s.gym_id = $1
		ORDER BY s.created_at DESC
	`, gymID)
	if err != nil {
		return nil, fmt.Errorf("list gym subscriptions: %w", err)
	}
	return subs, nil
}

func (r *repository) ListForUser(ctx context.Context, userID string) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user subscriptions: %w", err)
	}
	return subs, nil
}
