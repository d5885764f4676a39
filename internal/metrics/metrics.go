package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the BiblioRuche backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Database Metrics
	DBQueriesTotal  prometheus.CounterVec
	DBQueryDuration prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Business Metrics
	BallotsCastTotal        prometheus.CounterVec
	BadgesAwardedTotal      prometheus.CounterVec
	NotificationsSentTotal  prometheus.CounterVec
	EbookDownloadsTotal     prometheus.Counter
	MetadataLookupsTotal    prometheus.CounterVec
	ProposalsSubmittedTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "biblioruche_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "biblioruche_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Database Metrics
		DBQueriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_db_queries_total",
				Help: "Total database queries by operation type",
			},
			[]string{"query_type"},
		),
		DBQueryDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "biblioruche_db_query_duration_seconds",
				Help:    "Database query execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"query_type"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		BallotsCastTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_ballots_cast_total",
				Help: "Total ballots recorded by club kind",
			},
			[]string{"kind"},
		),
		BadgesAwardedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_badges_awarded_total",
				Help: "Total badges granted by category",
			},
			[]string{"category"},
		),
		NotificationsSentTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_notifications_sent_total",
				Help: "Total in-app notifications created by type",
			},
			[]string{"type"},
		),
		EbookDownloadsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "biblioruche_ebook_downloads_total",
				Help: "Total ebook file downloads served",
			},
		),
		MetadataLookupsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_metadata_lookups_total",
				Help: "Total Open Library lookups by result",
			},
			[]string{"result"},
		),
		ProposalsSubmittedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biblioruche_proposals_submitted_total",
				Help: "Total proposals submitted by kind",
			},
			[]string{"kind"},
		),
	}
}
