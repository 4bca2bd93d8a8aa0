package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		generationsTotal,
		generationLatencyMs,
	)
}

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryon_generations_total",
			Help: "Try-on generations by outcome (success/limit/prohibited/busy/error).",
		},
		[]string{"outcome", "plan"},
	)

	generationLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tryon_generation_latency_ms",
			Help:    "End-to-end try-on latency in milliseconds (fetch, generate, store, record).",
			Buckets: []float64{500, 1000, 2500, 5000, 10000, 20000, 40000, 80000, 160000},
		},
		[]string{"success"},
	)
)

func IncGeneration(outcome, plan string) {
	generationsTotal.WithLabelValues(norm(outcome), norm(plan)).Inc()
}

func ObserveGenerationLatency(latencyMs float64, success bool) {
	generationLatencyMs.WithLabelValues(strconv.FormatBool(success)).Observe(latencyMs)
}
