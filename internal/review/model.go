package review

import "time"

type Review struct {
	ID         string    `db:"id" json:"id"`
	ReviewerID string    `db:"reviewer_id" json:"reviewer_id"`
	ReviewedID string    `db:"reviewed_id" json:"reviewed_id"`
	BookingID  *string   `db:"booking_id" json:"booking_id,omitempty"`
	Rating     int       `db:"rating" json:"rating" example:"5"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SubmitRequest carries the rating as a number so fractional values reach
// the rating check instead of failing JSON decoding.
type SubmitRequest struct {
	ReviewedID string  `json:"reviewed_id" binding:"required"`
	BookingID  *string `json:"booking_id,omitempty"`
	Rating     float64 `json:"rating" example:"5"`
	Comment    *string `json:"comment,omitempty" binding:"omitempty,max=2000"`
}

type RatingSummary struct {
	ProfileID string  `json:"profile_id"`
	Average   float64 `json:"average" example:"4.5"`
	Count     int     `json:"count" example:"12"`
}
