package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot updates handled labeled by event kind and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	membershipChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_checks_total",
			Help: "Channel membership lookups labeled by result",
		},
		[]string{"result"},
	)
	gateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_decisions_total",
			Help: "Access gate decisions labeled by decision",
		},
		[]string{"decision"},
	)
	broadcastRecipientsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_recipients_total",
			Help: "Broadcast relay attempts per recipient labeled by outcome",
		},
		[]string{"outcome"},
	)
	broadcastDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_duration_seconds",
			Help:    "Duration of a full broadcast pass in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	registryUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_users_total",
			Help: "Number of users ever seen by the bot",
		},
	)
	dailyActiveUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_daily_active_users",
			Help: "Number of users seen in the trailing 24 hours",
		},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordMembershipCheck counts a membership lookup result (a status or a failure reason).
func RecordMembershipCheck(result string) {
	if result == "" {
		result = "unknown"
	}

	membershipChecksTotal.WithLabelValues(result).Inc()
}

// RecordGateDecision counts allowed and blocked gate evaluations.
func RecordGateDecision(allowed bool) {
	decision := "blocked"
	if allowed {
		decision = "allowed"
	}

	gateDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordBroadcast records per-recipient outcomes of one finished broadcast.
func RecordBroadcast(succeeded, failed int, duration time.Duration) {
	broadcastRecipientsTotal.WithLabelValues("success").Add(float64(succeeded))
	broadcastRecipientsTotal.WithLabelValues("failure").Add(float64(failed))
	broadcastDurationSeconds.Observe(duration.Seconds())
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// SetRegistryUsers updates the user gauges from the latest stats computation.
func SetRegistryUsers(total, dailyActive int) {
	registryUsers.Set(float64(total))
	dailyActiveUsers.Set(float64(dailyActive))
}
