package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymconnect_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_bookings_created_total",
			Help: "Total number of bookings created",
		},
		[]string{"session_type"},
	)

	BookingRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_booking_rejections_total",
			Help: "Booking requests rejected, by reason code",
		},
		[]string{"reason"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_booking_transitions_total",
			Help: "Booking status transitions",
		},
		[]string{"from", "to"},
	)

	ReviewsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_reviews_submitted_total",
			Help: "Total number of reviews submitted",
		},
		[]string{"rating"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"type"},
	)

	SubscriptionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_subscription_transitions_total",
			Help: "Subscription status transitions",
		},
		[]string{"to"},
	)

	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_sweep_runs_total",
			Help: "Background sweep runs by task and result",
		},
		[]string{"task", "result"},
	)

	SweepAffectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymconnect_sweep_affected_total",
			Help: "Rows changed by background sweeps",
		},
		[]string{"task"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingCreated(sessionType string) {
	BookingsCreatedTotal.WithLabelValues(sessionType).Inc()
}

func RecordBookingRejection(reason string) {
	BookingRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordBookingTransition(from, to string) {
	BookingTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordReview(rating string) {
	ReviewsSubmittedTotal.WithLabelValues(rating).Inc()
}

func RecordSubscription(subType string) {
	SubscriptionsCreatedTotal.WithLabelValues(subType).Inc()
}

func RecordSubscriptionTransition(to string) {
	SubscriptionTransitionsTotal.WithLabelValues(to).Inc()
}

// RecordSweep counts one sweep run; affected is only added on success.
func RecordSweep(task string, affected int, err error) {
	if err != nil {
		SweepRunsTotal.WithLabelValues(task, "error").Inc()
		return
	}
	SweepRunsTotal.WithLabelValues(task, "ok").Inc()
	SweepAffectedTotal.WithLabelValues(task).Add(float64(affected))
}
