package auth

import "fmt"

type Role string

const (
	RoleUser     Role = "user"
	RoleTrainer  Role = "trainer"
	RoleGymOwner Role = "gym_owner"
)

// Capability names one operation guarded by role.
type Capability string

const (
	CapRequestBooking       Capability = "request_booking"
	CapTransitionBooking    Capability = "transition_booking"
	CapViewBookings         Capability = "view_bookings"
	CapManageAvailability   Capability = "manage_availability"
	CapViewBookingAnalytics Capability = "view_booking_analytics"
	CapSubmitReview         Capability = "submit_review"
	CapManageSubscriptions  Capability = "manage_subscriptions"
	CapCancelSubscription   Capability = "cancel_subscription"
	CapViewOwnSubscriptions Capability = "view_own_subscriptions"
)

var capabilities = map[Role]map[Capability]bool{
	RoleUser: {
		CapRequestBooking:       true,
		CapTransitionBooking:    true,
		CapViewBookings:         true,
		CapSubmitReview:         true,
		CapCancelSubscription:   true,
		CapViewOwnSubscriptions: true,
	},
	RoleTrainer: {
		CapTransitionBooking:    true,
		CapViewBookings:         true,
		CapManageAvailability:   true,
		CapViewBookingAnalytics: true,
		CapSubmitReview:         true,
		CapCancelSubscription:   true,
		CapViewOwnSubscriptions: true,
	},
	RoleGymOwner: {
		CapManageSubscriptions: true,
		CapCancelSubscription:  true,
	},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

func (r Role) String() string {
	return string(r)
}

// Identity is the authenticated caller as seen by the services.
type Identity struct {
	ProfileID string
	Role      Role
}

func (i Identity) Can(c Capability) bool {
	return i.ProfileID != "" && i.Role.Can(c)
}
