package availability

import (
	"time"

	"gymconnect/internal/slot"
)

// Window is one recurring weekly interval during which a trainer can be booked.
type Window struct {
	ID        string     `db:"id" json:"id"`
	TrainerID string     `db:"trainer_id" json:"trainer_id"`
	DayOfWeek int        `db:"day_of_week" json:"day_of_week" example:"1"`
	StartTime slot.Clock `db:"start_time" json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime   slot.Clock `db:"end_time" json:"end_time" swaggertype:"string" example:"12:00"`
	Available bool       `db:"available" json:"available"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

func (w Window) Range() slot.Range {
	return slot.Range{Start: w.StartTime, End: w.EndTime}
}

type WindowInput struct {
	StartTime slot.Clock `json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime   slot.Clock `json:"end_time" swaggertype:"string" example:"12:00"`
	Available *bool      `json:"available,omitempty"`
}

type ReplaceDayRequest struct {
	Windows []WindowInput `json:"windows" binding:"max=48"`
}
