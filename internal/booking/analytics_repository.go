package booking

import (
	"context"
	"fmt"

	"gymconnect/internal/slot"
)

func (r *repository) StatsByDay(ctx context.Context, trainerID string, from, to slot.Date) ([]DayStats, error) {
	query := `
SELECT
  to_char(booking_date, 'YYYY-MM-DD')           AS day,
  COUNT(*) FILTER (WHERE status = 'pending')    AS pending,
  COUNT(*) FILTER (WHERE status = 'confirmed')  AS confirmed,
  COUNT(*) FILTER (WHERE status = 'cancelled')  AS cancelled,
  COUNT(*) FILTER (WHERE status = 'completed')  AS completed
FROM bookings
WHERE trainer_id = $1 AND booking_date BETWEEN $2 AND $3
GROUP BY booking_date
ORDER BY booking_date;
`
	stats := []DayStats{}
	if err := r.db.SelectContext(ctx, &stats, query, trainerID, from, to); err != nil {
		return nil, fmt.Errorf("booking stats by day: %w", err)
	}
	return stats, nil
}
