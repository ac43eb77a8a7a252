package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
)

var (
	// Evolution metrics
	generationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_ga_generations_total",
			Help: "Total number of evaluated generations",
		},
	)

	evaluationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_ga_evaluations_total",
			Help: "Total number of candidate evaluations",
		},
	)

	improvementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_ga_best_improvements_total",
			Help: "Number of generations that improved the best-ever candidate",
		},
	)

	fitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_ga_fitness",
			Help: "Fitness of the latest generation",
		},
		[]string{"stat"},
	)

	feasibleRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_ga_feasible_ratio",
			Help: "Share of the latest generation that satisfies every constraint",
		},
	)

	// Run metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_ga_runs_total",
			Help: "Completed optimizer runs by outcome",
		},
		[]string{"outcome"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_ga_run_duration_seconds",
			Help:    "Duration of optimizer runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_ga_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal)
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(improvementsTotal)
	prometheus.MustRegister(fitness)
	prometheus.MustRegister(feasibleRatio)
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// MetricsObserver feeds generation statistics into the Prometheus collectors
type MetricsObserver struct{}

// NewMetricsObserver creates an observer to register with the optimizer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnGeneration records one evaluated generation
func (o *MetricsObserver) OnGeneration(stats optimization.GenerationStats) {
	RecordGeneration(stats)
}

// RecordGeneration updates the evolution metrics from one generation
func RecordGeneration(stats optimization.GenerationStats) {
	generationsTotal.Inc()
	evaluationsTotal.Add(float64(stats.PopulationSize))
	if stats.Improved {
		improvementsTotal.Inc()
	}

	fitness.WithLabelValues("best").Set(stats.BestFitness)
	fitness.WithLabelValues("best_ever").Set(stats.BestEverFitness)
	fitness.WithLabelValues("average").Set(stats.AverageFitness)
	fitness.WithLabelValues("worst").Set(stats.WorstFitness)

	if stats.PopulationSize > 0 {
		feasibleRatio.Set(float64(stats.FeasibleCount) / float64(stats.PopulationSize))
	}
}

// RecordRun records a finished run
func RecordRun(outcome optimization.Outcome, duration time.Duration) {
	runsTotal.WithLabelValues(string(outcome)).Inc()
	runDuration.Observe(duration.Seconds())
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
