package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "astrapix"

var (
	// GenerationsTotal 生成请求结果计数，result: success/insufficient_balance/upstream_error/error
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Image generation attempts by result.",
	}, []string{"result"})

	// GenerationDuration 上游生成接口耗时
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Latency of the upstream image generation call.",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 60},
	})

	// PaymentsTotal 支付流程计数，stage: create_order/verify，result: success/...
	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Payment order and verification outcomes.",
	}, []string{"stage", "result"})

	// CreditsGranted 充值与注册赠送发放的积分总数
	CreditsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credits_granted_total",
		Help:      "Credits added to user ledgers by source.",
	}, []string{"source"})

	// OTPTotal 验证码签发与校验计数
	OTPTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_total",
		Help:      "OTP issue and verify outcomes by purpose.",
	}, []string{"purpose", "action", "result"})

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
