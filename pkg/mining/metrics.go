package mining

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusMiningAttempts prometheus.Counter
	prometheusMiningRounds   *prometheus.CounterVec
	prometheusMiningRace     prometheus.Histogram
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusMiningAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "powledger",
			Subsystem: "mining",
			Name:      "attempts_total",
			Help:      "Number of nonces tried across all candidates",
		},
	)

	prometheusMiningRounds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "powledger",
			Subsystem: "mining",
			Name:      "rounds_total",
			Help:      "Number of mining rounds by outcome",
		},
		[]string{"outcome"},
	)

	prometheusMiningRace = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "powledger",
			Subsystem: "mining",
			Name:      "race_seconds",
			Help:      "Histogram of mining round duration",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)
}

func observeRound(r *Round) {
	initPrometheusMetrics()

	var tries uint64
	for _, s := range r.Stats {
		tries += s.Tries
	}
	prometheusMiningAttempts.Add(float64(tries))

	outcome := "timeout"
	if r.HasWinner() {
		outcome = "won"
	}
	prometheusMiningRounds.WithLabelValues(outcome).Inc()
	prometheusMiningRace.Observe(r.Took.Seconds())
}
