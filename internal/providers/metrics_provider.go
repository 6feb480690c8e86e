package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"milktracker/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncRateLimited()
	ObserveActionDuration(action string, duration time.Duration)
	IncActionErrors(action string)
	ObservePersistenceDuration(duration time.Duration)
}

// MealsGaugeSource exposes the meal table figures sampled on every scrape.
type MealsGaugeSource interface {
	MealCount() int
	HasOngoingMeal() bool
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	rateLimited         prometheus.Counter
	actionDuration      *prometheus.HistogramVec
	actionErrors        *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncRateLimited() {
	m.rateLimited.Inc()
}

func (m *MetricsProvider) ObserveActionDuration(action string, duration time.Duration) {
	m.actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncActionErrors(action string) {
	m.actionErrors.WithLabelValues(action).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func NewMetricsProvider(conf *structures.Config, source MealsGaugeSource) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "milktracker_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "milktracker_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "milktracker_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "milktracker_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		rateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "milktracker_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),

		actionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "milktracker_action_duration_seconds",
			Help:    "Duration of meal and memory actions, persistence included",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),

		actionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "milktracker_action_errors_total",
			Help: "Total number of rejected or failed actions",
		}, []string{"action"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "milktracker_persistence_duration_seconds",
			Help:    "Duration of shutdown persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "milktracker_meals_total",
		Help: "Number of rows in the meals table",
	}, func() float64 {
		return float64(source.MealCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "milktracker_meal_ongoing",
		Help: "1 while a meal is being recorded",
	}, func() float64 {
		return boolGauge(source.HasOngoingMeal())
	})

	return m
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncRateLimited()                                  {}
func (n *noopMetrics) ObserveActionDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncActionErrors(_ string)                         {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
