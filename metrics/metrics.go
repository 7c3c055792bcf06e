// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ReferralsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "referrals_created_total",
		Help: "Total number of referrals submitted",
	})
	ReferralStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_status_changes_total",
			Help: "Total number of referral status changes",
		},
		[]string{"status"},
	)
	RewardCalculations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reward_calculations_total",
		Help: "Total number of reward summaries computed",
	})
	TiersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reward_tiers_expired_total",
		Help: "Total number of reward tiers deactivated after their validity ended",
	})
)

func RecordReferralCreated() {
	ReferralsCreated.Inc()
}

func RecordStatusChange(status string) {
	ReferralStatusChanges.WithLabelValues(status).Inc()
}

func RecordRewardCalculation() {
	RewardCalculations.Inc()
}

func RecordTiersExpired(count int64) {
	TiersExpired.Add(float64(count))
}

// Middleware records request counts and latency per route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
