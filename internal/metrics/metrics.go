package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReferralClicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "referral_clicks_total",
		Help: "Referral link visits, by outcome",
	}, []string{"outcome"})

	CheckoutSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_total",
		Help: "Checkout session creations, by provider and status",
	}, []string{"provider", "status"})

	CheckoutSessionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_session_latency_seconds",
		Help:    "Latency of provider checkout session creation",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	AttributionWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attribution_writes_total",
		Help: "Best-effort attribution writes, by kind and result",
	}, []string{"kind", "result"})

	StatsRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "affiliate_stats_requests_total",
		Help: "Affiliate stats rollup requests",
	})
)
