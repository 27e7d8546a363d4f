package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "runtimeclass_admission_controller"
	subsystem = "webhook"
)

var (
	webhookLabels  = []string{"webhook", "resource"}
	decisionLabels = []string{"kind", "reason"}
)

var (
	TotalRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "Number of admission requests received.",
	}, webhookLabels)

	SuccessfulRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "successful_requests_total",
		Help:      "Number of admission requests answered with an admission review.",
	}, webhookLabels)

	InvalidRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "invalid_requests_total",
		Help:      "Number of admission requests rejected with 400.",
	}, webhookLabels)

	InternalError = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "internal_errors_total",
		Help:      "Number of admission requests that hit an internal error.",
	}, webhookLabels)

	DurationRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Time spent handling admission requests.",
		Buckets:   prometheus.DefBuckets,
	}, webhookLabels)

	Decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "decisions_total",
		Help:      "Mutation decisions by object kind and reason.",
	}, decisionLabels)

	BuildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build information, value is always 1.",
	}, []string{"version", "git_sha"})
)

func init() {
	prometheus.MustRegister(
		TotalRequests,
		SuccessfulRequests,
		InvalidRequests,
		InternalError,
		DurationRequests,
		Decisions,
		BuildInfo,
	)
}
