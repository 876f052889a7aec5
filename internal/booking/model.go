package booking

import (
	"time"

	"gymconnect/internal/slot"
)

type Booking struct {
	ID          string      `db:"id" json:"id"`
	UserID      string      `db:"user_id" json:"user_id"`
	TrainerID   string      `db:"trainer_id" json:"trainer_id"`
	Date        slot.Date   `db:"booking_date" json:"date" swaggertype:"string" example:"2026-10-19"`
	StartTime   slot.Clock  `db:"start_time" json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime     slot.Clock  `db:"end_time" json:"end_time" swaggertype:"string" example:"10:00"`
	SessionType SessionType `db:"session_type" json:"session_type" example:"personal"`
	Status      Status      `db:"status" json:"status" example:"pending"`
	PriceCents  *int64      `db:"price_cents" json:"price_cents,omitempty" example:"5000"`
	Notes       *string     `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

func (b Booking) Range() slot.Range {
	return slot.Range{Start: b.StartTime, End: b.EndTime}
}

// PartyOf reports the role profileID plays in b, or 0 when it plays none.
func (b Booking) PartyOf(profileID string) Party {
	var p Party
	if profileID == "" {
		return p
	}
	if b.UserID == profileID {
		p |= PartyUser
	}
	if b.TrainerID == profileID {
		p |= PartyTrainer
	}
	return p
}

type CreateRequest struct {
	TrainerID   string     `json:"trainer_id" binding:"required"`
	Date        slot.Date  `json:"date" swaggertype:"string" example:"2026-10-19"`
	StartTime   slot.Clock `json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime     slot.Clock `json:"end_time" swaggertype:"string" example:"10:00"`
	SessionType string     `json:"session_type,omitempty" example:"personal"`
	PriceCents  *int64     `json:"price_cents,omitempty" binding:"omitempty,min=0" example:"5000"`
	Notes       *string    `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

func (r CreateRequest) Range() slot.Range {
	return slot.Range{Start: r.StartTime, End: r.EndTime}
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required" example:"confirmed"`
}

// ListFilter narrows ListFor. Role selects which side of the booking
// ProfileID must be on; nil means either.
type ListFilter struct {
	ProfileID string
	Role      *Party
	Status    *Status
}

type DayStats struct {
	Day       string `db:"day" json:"day" example:"2026-10-19"`
	Pending   int    `db:"pending" json:"pending"`
	Confirmed int    `db:"confirmed" json:"confirmed"`
	Cancelled int    `db:"cancelled" json:"cancelled"`
	Completed int    `db:"completed" json:"completed"`
}

type BookableResponse struct {
	Bookable bool   `json:"bookable"`
	Code     string `json:"code,omitempty" example:"slot_conflict"`
	Reason   string `json:"reason,omitempty"`
}
