package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "trainer", "gym_owner"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}

	_, err := ParseRole("admin")
	assert.Error(t, err)
}

func TestCapabilityTable(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleUser, CapRequestBooking, true},
		{RoleTrainer, CapRequestBooking, false},
		{RoleGymOwner, CapRequestBooking, false},
		{RoleTrainer, CapManageAvailability, true},
		{RoleUser, CapManageAvailability, false},
		{RoleUser, CapSubmitReview, true},
		{RoleTrainer, CapSubmitReview, true},
		{RoleGymOwner, CapSubmitReview, false},
		{RoleGymOwner, CapManageSubscriptions, true},
		{RoleUser, CapManageSubscriptions, false},
		{RoleUser, CapTransitionBooking, true},
		{RoleTrainer, CapTransitionBooking, true},
		{RoleGymOwner, CapTransitionBooking, false},
		{RoleTrainer, CapViewBookingAnalytics, true},
		{Role("admin"), CapViewBookings, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.cap))
		})
	}
}

func TestIdentityCanRequiresProfile(t *testing.T) {
	assert.True(t, Identity{ProfileID: "p-1", Role: RoleUser}.Can(CapRequestBooking))
	assert.False(t, Identity{Role: RoleUser}.Can(CapRequestBooking))
}
