package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "admin_console", Name: "sign_ins_total", Help: "Number of sign-in attempts by outcome."},
		[]string{"outcome"},
	)
	SnapshotsDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "admin_console", Name: "roster_snapshots_delivered_total", Help: "Number of roster snapshots pushed to dashboard streams."},
	)
	StreamSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "admin_console", Name: "stream_subscribers", Help: "Currently connected dashboard streams."},
	)
	UserDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "admin_console", Name: "user_deletes_total", Help: "Number of user delete requests by outcome."},
		[]string{"outcome"},
	)
	RosterExports = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "admin_console", Name: "roster_exports_total", Help: "Number of roster CSV exports."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "admin_console", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "admin_console", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SignIns)
	reg.MustRegister(SnapshotsDelivered)
	reg.MustRegister(StreamSubscribers)
	reg.MustRegister(UserDeletes)
	reg.MustRegister(RosterExports)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
