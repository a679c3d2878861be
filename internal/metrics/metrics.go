package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReferralsTracked 成功归因的推荐数
	ReferralsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_referrals_tracked_total",
			Help: "Referrals attributed to an affiliate",
		},
		[]string{"source"},
	)

	// ReferralsConverted 转化的推荐数
	ReferralsConverted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_referrals_converted_total",
			Help: "Referrals moved to CONVERTED",
		},
	)

	// Refunds 退款/拒付处理结果
	Refunds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_refunds_total",
			Help: "Refund and chargeback adjustments by outcome",
		},
		[]string{"type", "outcome"},
	)

	// Payouts 提现状态变更
	Payouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_payouts_total",
			Help: "Payout state transitions by method and resulting status",
		},
		[]string{"method", "status"},
	)

	// RateLimited 被限流拒绝的请求
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_rate_limited_total",
			Help: "Requests rejected by a rate limit rule",
		},
		[]string{"rule"},
	)

	// HTTPRequestDuration 接口耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveHTTP 记录一次 HTTP 请求
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RefundOutcome 记录退款处理结果
func RefundOutcome(refundType string, processed bool) {
	outcome := "skipped"
	if processed {
		outcome = "processed"
	}
	Refunds.WithLabelValues(refundType, outcome).Inc()
}
