package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/bookings", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/bookings", "200"))
	assert.Equal(t, float64(1), count)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/auth/login", "401", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "401")))
}

func TestRecordBookingCreated(t *testing.T) {
	BookingsCreatedTotal.Reset()

	RecordBookingCreated("personal")
	RecordBookingCreated("personal")
	RecordBookingCreated("group")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingsCreatedTotal.WithLabelValues("personal")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingsCreatedTotal.WithLabelValues("group")))
}

func TestRecordBookingRejection(t *testing.T) {
	BookingRejectionsTotal.Reset()

	RecordBookingRejection("slot_conflict")
	RecordBookingRejection("outside_availability")
	RecordBookingRejection("slot_conflict")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingRejectionsTotal.WithLabelValues("slot_conflict")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingRejectionsTotal.WithLabelValues("outside_availability")))
}

func TestRecordBookingTransition(t *testing.T) {
	BookingTransitionsTotal.Reset()

	RecordBookingTransition("pending", "confirmed")
	RecordBookingTransition("confirmed", "completed")

	assert.Equal(t, float64(1), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("confirmed", "completed")))
	assert.Equal(t, float64(0), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("pending", "cancelled")))
}

func TestRecordReviewAndSubscription(t *testing.T) {
	ReviewsSubmittedTotal.Reset()
	SubscriptionsCreatedTotal.Reset()
	SubscriptionTransitionsTotal.Reset()

	RecordReview("5")
	RecordSubscription("monthly")
	RecordSubscription("monthly")
	RecordSubscriptionTransition("expired")

	assert.Equal(t, float64(1), testutil.ToFloat64(ReviewsSubmittedTotal.WithLabelValues("5")))
	assert.Equal(t, float64(2), testutil.ToFloat64(SubscriptionsCreatedTotal.WithLabelValues("monthly")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SubscriptionTransitionsTotal.WithLabelValues("expired")))
}

func TestRecordSweep(t *testing.T) {
	SweepRunsTotal.Reset()
	SweepAffectedTotal.Reset()

	RecordSweep("expire_subscriptions", 3, nil)
	RecordSweep("expire_subscriptions", 2, nil)
	RecordSweep("expire_subscriptions", 7, errors.New("connection refused"))

	assert.Equal(t, float64(2), testutil.ToFloat64(SweepRunsTotal.WithLabelValues("expire_subscriptions", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SweepRunsTotal.WithLabelValues("expire_subscriptions", "error")))
	assert.Equal(t, float64(5), testutil.ToFloat64(SweepAffectedTotal.WithLabelValues("expire_subscriptions")))
}
