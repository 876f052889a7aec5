package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/db"
	"gymconnect/internal/slot"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, user_id, trainer_id, booking_date, start_time, end_time,
	session_type, status, price_cents, notes, created_at, updated_at`

// queries runs against either the pool or an open transaction.
type queries struct {
	q sqlx.ExtContext
}

func (r queries) ActiveForTrainerOn(ctx context.Context, trainerID string, date slot.Date) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trainer_id = $1 AND booking_date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_time ASC`

	bookings := []Booking{}
	if err := sqlx.SelectContext(ctx, r.q, &bookings, query, trainerID, date); err != nil {
		return nil, fmt.Errorf("select active bookings: %w", err)
	}
	return bookings, nil
}

type repository struct {
	queries
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{
		queries: queries{q: db},
		db:      db,
	}
}

type txRepository struct {
	queries
}

func (r *repository) WithTransaction(ctx context.Context, fn func(tx TxRepository) error) error {
	return db.WithTransaction(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		return fn(&txRepository{queries: queries{q: tx}})
	})
}

func (t *txRepository) LockTrainerDay(ctx context.Context, trainerID string, date slot.Date) error {
	if _, err := t.q.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`,
		trainerID, date.String(),
	); err != nil {
		return fmt.Errorf("lock trainer day: %w", err)
	}
	return nil
}

func (t *txRepository) Insert(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := t.q.ExecContext(ctx, query,
		b.ID, b.UserID, b.TrainerID, b.Date, b.StartTime, b.EndTime,
		b.SessionType, b.Status, b.PriceCents, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if db.IsExclusionViolation(err) {
			return apperr.Wrap(apperr.CodeSlotConflict, apperr.ErrSlotConflict.Message, err)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.CodeNotFound, "booking not found")
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (r *repository) ListFor(ctx context.Context, filter ListFilter) ([]Booking, error) {
	var (
		where []string
		args  = []interface{}{filter.ProfileID}
	)

	switch {
	case filter.Role == nil || *filter.Role == PartyEither:
		where = append(where, "(user_id = $1 OR trainer_id = $1)")
	case *filter.Role == PartyTrainer:
		where = append(where, "trainer_id = $1")
	default:
		where = append(where, "user_id = $1")
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY booking_date DESC, start_time DESC`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) CompareAndSetStatus(ctx context.Context, id string, from, to Status, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, now,
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if rows == 0 {
		return ErrStatusChanged
	}
	return nil
}

// ListElapsedConfirmed returns confirmed bookings whose session ended at or before now.
func (r *repository) ListElapsedConfirmed(ctx context.Context, now time.Time) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1
		  AND (booking_date < $2 OR (booking_date = $2 AND end_time <= $3))
		ORDER BY booking_date ASC, end_time ASC`

	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings, query,
		StatusConfirmed, slot.DateOf(now), slot.NewClock(now.Hour(), now.Minute()),
	)
	if err != nil {
		return nil, fmt.Errorf("list elapsed bookings: %w", err)
	}
	return bookings, nil
}
