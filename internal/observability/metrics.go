package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "solarsite"

// Metrics holds the Prometheus counters, histograms, and gauges for the site.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // labels: route, status
	HTTPDuration *prometheus.HistogramVec // labels: route

	// Prediction metrics.
	PredictRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	PredictCache    *prometheus.CounterVec // labels: result={hit,miss}
	PredictDuration prometheus.Histogram
	PredictLimited  prometheus.Counter

	// Lead metrics.
	LeadsAccepted     *prometheus.CounterVec // labels: kind={contact,signup}
	LeadsDropped      prometheus.Counter
	LeadsPublished    prometheus.Counter
	LeadPublishErrors prometheus.Counter
	LeadBatchSize     prometheus.Histogram
	LeadBatchDuration prometheus.Histogram
	PipelineRunning   prometheus.Gauge

	ActiveSessions prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 15},
		}, []string{"route"}),
		PredictRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predict_requests_total",
			Help:      "Prediction service requests by outcome.",
		}, []string{"outcome"}),
		PredictCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predict_cache_total",
			Help:      "Prediction cache lookups by result.",
		}, []string{"result"}),
		PredictDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predict_duration_seconds",
			Help:      "Prediction service request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		PredictLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predict_rate_limited_total",
			Help:      "Prediction requests rejected by the per-client rate limit.",
		}),
		LeadsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_accepted_total",
			Help:      "Valid form submissions queued for publishing, by form.",
		}, []string{"kind"}),
		LeadsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_dropped_total",
			Help:      "Leads rejected because the publish queue was full.",
		}),
		LeadsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_published_total",
			Help:      "Leads written to the lead sink.",
		}),
		LeadPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_publish_errors_total",
			Help:      "Failed lead batch writes.",
		}),
		LeadBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lead_batch_size",
			Help:      "Number of leads per published batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		LeadBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lead_batch_duration_seconds",
			Help:      "Duration of a lead batch write.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lead_pipeline_running",
			Help:      "1 when the lead pipeline is active, 0 when shut down.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Browsing sessions currently held in memory.",
		}),
	}

	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.PredictRequests,
		m.PredictCache,
		m.PredictDuration,
		m.PredictLimited,
		m.LeadsAccepted,
		m.LeadsDropped,
		m.LeadsPublished,
		m.LeadPublishErrors,
		m.LeadBatchSize,
		m.LeadBatchDuration,
		m.PipelineRunning,
		m.ActiveSessions,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		HTTPRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"route", "status"}),
		HTTPDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds"}, []string{"route"}),
		PredictRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "predict_requests_total"}, []string{"outcome"}),
		PredictCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "predict_cache_total"}, []string{"result"}),
		PredictDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "predict_duration_seconds"}),
		PredictLimited:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "predict_rate_limited_total"}),
		LeadsAccepted:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "leads_accepted_total"}, []string{"kind"}),
		LeadsDropped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "leads_dropped_total"}),
		LeadsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "leads_published_total"}),
		LeadPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "lead_publish_errors_total"}),
		LeadBatchSize:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "lead_batch_size"}),
		LeadBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "lead_batch_duration_seconds"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "lead_pipeline_running"}),
		ActiveSessions:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "active_sessions"}),
	}
}
