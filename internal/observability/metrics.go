package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	pointsAwardedTotal     *prometheus.CounterVec
	badgesGrantedTotal     *prometheus.CounterVec
	remindersCreatedTotal  *prometheus.CounterVec
	notificationsPublished prometheus.Counter
	commandDurationSeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the LMS services.
func RegisterMetrics() {
	registerOnce.Do(func() {
		pointsAwardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_points_awarded_total",
			Help: "Total number of points appended to the ledger.",
		}, []string{"reason"})

		badgesGrantedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_badges_granted_total",
			Help: "Total number of badges granted.",
		}, []string{"badge"})

		remindersCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_reminders_created_total",
			Help: "Total number of due date reminders inserted.",
		}, []string{"kind"})

		notificationsPublished = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lms_notifications_published_total",
			Help: "Total number of notifications written.",
		})

		commandDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lms_command_duration_seconds",
			Help:    "Latency distribution for CLI commands.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"command"})

		prometheus.MustRegister(pointsAwardedTotal, badgesGrantedTotal, remindersCreatedTotal, notificationsPublished, commandDurationSeconds)
	})
}

// PointsAwarded exposes the counter of awarded points keyed by reason.
func PointsAwarded() *prometheus.CounterVec {
	RegisterMetrics()
	return pointsAwardedTotal
}

// BadgesGranted exposes the counter of granted badges keyed by badge name.
func BadgesGranted() *prometheus.CounterVec {
	RegisterMetrics()
	return badgesGrantedTotal
}

// RemindersCreated exposes the counter of inserted reminders keyed by kind (assignment or quiz).
func RemindersCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return remindersCreatedTotal
}

// NotificationsPublished exposes the counter of written notifications.
func NotificationsPublished() prometheus.Counter {
	RegisterMetrics()
	return notificationsPublished
}

// CommandDuration exposes the latency histogram for CLI commands.
func CommandDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return commandDurationSeconds
}
