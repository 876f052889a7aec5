package subscription

import (
	"time"

	"gymconnect/internal/slot"
)

type Type string

type Status string

const (
	TypeSingleGymLite Type = "single_gym_lite"
	TypeMultiGymFlex  Type = "multi_gym_flex"
	TypeUnlimitedPro  Type = "unlimited_pro"

	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

type Subscription struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	GymID     string    `db:"gym_id" json:"gym_id"`
	Type      Type      `db:"type" json:"type" example:"multi_gym_flex"`
	Status    Status    `db:"status" json:"status" example:"active"`
	StartDate slot.Date `db:"start_date" json:"start_date" swaggertype:"string" example:"2026-10-01"`
	EndDate   slot.Date `db:"end_date" json:"end_date" swaggertype:"string" example:"2026-11-01"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WithSubscriber adds the subscriber's display fields for gym listings.
type WithSubscriber struct {
	Subscription
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type Plan struct {
	Type        Type   `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Months      int    `json:"months"`
}

type CreateRequest struct {
	UserID    string     `json:"user_id" binding:"required"`
	Type      string     `json:"type" binding:"required" example:"multi_gym_flex"`
	StartDate slot.Date  `json:"start_date" swaggertype:"string" example:"2026-10-01"`
	EndDate   *slot.Date `json:"end_date,omitempty" swaggertype:"string" example:"2026-11-01"`
}
