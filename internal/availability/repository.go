package availability

import (
	"context"
	"fmt"
	"time"

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

func (r *repository) WindowsFor(ctx context.Context, trainerID string, day time.Weekday) ([]Window, error) {
	query := `
		SELECT id, trainer_id, day_of_week, start_time, end_time, available, created_at, updated_at
		FROM availability_windows
		WHERE trainer_id = $1 AND day_of_week = $2
		ORDER BY start_time ASC
	`

	windows := []Window{}
	if err := r.db.SelectContext(ctx, &windows, query, trainerID, int(day)); err != nil {
		return nil, fmt.Errorf("select availability windows: %w", err)
	}

	return windows, nil
}

func (r *repository) ListForTrainer(ctx context.Context, trainerID string) ([]Window, error) {
	query := `
		SELECT id, trainer_id, day_of_week, start_time, end_time, available, created_at, updated_at
		FROM availability_windows
		WHERE trainer_id = $1
		ORDER BY day_of_week ASC, start_time ASC
	`

	windows := []Window{}
	if err := r.db.SelectContext(ctx, &windows, query, trainerID); err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}

	return windows, nil
}

func (r *repository) ReplaceDay(ctx context.Context, trainerID string, day time.Weekday, windows []Window) error {
	return db.WithTransaction(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM availability_windows WHERE trainer_id = $1 AND day_of_week = $2`,
			trainerID, int(day),
		); err != nil {
			return fmt.Errorf("delete availability windows: %w", err)
		}

		for _, w := range windows {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO availability_windows (id, trainer_id, day_of_week, start_time, end_time, available, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, w.ID, w.TrainerID, w.DayOfWeek, w.StartTime, w.EndTime, w.Available, w.CreatedAt, w.UpdatedAt); err != nil {
				// a concurrent replace of the same day committed first
				if db.IsExclusionViolation(err) {
					return apperr.Wrap(apperr.CodeInvalidRange, "availability windows overlap", err)
				}
				return fmt.Errorf("insert availability window: %w", err)
			}
		}

		return nil
	})
}
