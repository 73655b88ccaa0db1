package mediator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Method labels match the RPC operation names.
const (
	methodGenerate = "generateText"
	methodClassify = "classifyText"
)

// Outcome labels for rpcRequestsTotal.
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeBusy    = "busy"
	outcomeError   = "error"
)

var (
	rpcRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of RPC requests by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	rpcRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inferd",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of RPC requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	modelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "model",
			Name:      "tokens_total",
			Help:      "Total tokens processed by the model by direction",
		},
		[]string{"direction"},
	)

	classifyMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "classify",
			Name:      "matches_total",
			Help:      "Classification outcomes by matching tier",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(rpcRequestsTotal, rpcRequestDuration, modelTokensTotal, classifyMatchesTotal)
}

// observeRequest records one finished RPC request.
func observeRequest(method, outcome string, d time.Duration) {
	rpcRequestsTotal.WithLabelValues(method, outcome).Inc()
	rpcRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// observeTokens accounts prompt and reply tokens of a generation.
func observeTokens(input, generated int) {
	modelTokensTotal.WithLabelValues("input").Add(float64(input))
	modelTokensTotal.WithLabelValues("generated").Add(float64(generated))
}

// outcomeFor maps an admission failure to its outcome label.
func outcomeFor(err error) string {
	if IsBusy(err) {
		return outcomeBusy
	}
	return outcomeError
}
