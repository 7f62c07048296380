package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/collision-sentinel/model"
)

// Collector bundles Prometheus metrics for the analysis engine and its HTTP
// surface, and provides helpers to wire them into handlers.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	Analyses           *prometheus.CounterVec
	ApproachDistanceKm prometheus.Histogram
	AnalysisDuration   prometheus.Histogram

	CatalogObjects   prometheus.Gauge
	CatalogRefreshes prometheus.Counter
}

// NewCollector registers the engine's Prometheus metrics against the
// provided registerer, defaulting to the global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_http_requests_total",
		Help: "Total handled HTTP requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "status"})
	requests, err := registerCounterVec(reg, requests, "sentinel_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentinel_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"route", "method"})
	durations, err = registerHistogramVec(reg, durations, "sentinel_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_analyses_total",
		Help: "Completed collision-risk analyses, labeled by risk category and element provenance.",
	}, []string{"risk_category", "provenance"})
	analyses, err = registerCounterVec(reg, analyses, "sentinel_analyses_total")
	if err != nil {
		return nil, err
	}

	distance, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "sentinel_closest_approach_distance_km",
		Help: "Minimum separation distance per analysis in kilometres.",
		// Buckets straddle the classifier thresholds.
		Buckets: []float64{1, 5, 10, 25, 50, 100, 500, 1000, 5000, 20000},
	}), "sentinel_closest_approach_distance_km")
	if err != nil {
		return nil, err
	}

	analysisDur, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentinel_analysis_duration_seconds",
		Help:    "Wall time per analysis in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}), "sentinel_analysis_duration_seconds")
	if err != nil {
		return nil, err
	}

	objects, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sentinel_catalog_objects",
		Help: "Number of objects in the current catalog snapshot.",
	}), "sentinel_catalog_objects")
	if err != nil {
		return nil, err
	}

	refreshes, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_catalog_refreshes_total",
		Help: "Number of catalog snapshot swaps since start.",
	}), "sentinel_catalog_refreshes_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:           gatherer,
		HTTPRequests:       requests,
		HTTPDurations:      durations,
		Analyses:           analyses,
		ApproachDistanceKm: distance,
		AnalysisDuration:   analysisDur,
		CatalogObjects:     objects,
		CatalogRefreshes:   refreshes,
	}, nil
}

// Middleware records request counts and durations for HTTP handlers. Routes
// on this service are fixed paths, so the raw path is a safe label.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sr, r)

		if c == nil {
			return
		}
		route := r.URL.Path
		if c.HTTPRequests != nil {
			c.HTTPRequests.WithLabelValues(route, r.Method, fmt.Sprintf("%d", sr.status)).Inc()
		}
		if c.HTTPDurations != nil {
			c.HTTPDurations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveAnalysis satisfies the analyzer's MetricsRecorder interface.
func (c *Collector) ObserveAnalysis(category model.RiskCategory, minDistanceKm float64, elapsed time.Duration, simulated bool) {
	if c == nil {
		return
	}
	provenance := "catalog"
	if simulated {
		provenance = "simulated"
	}
	if c.Analyses != nil {
		c.Analyses.WithLabelValues(string(category), provenance).Inc()
	}
	if c.ApproachDistanceKm != nil {
		c.ApproachDistanceKm.Observe(minDistanceKm)
	}
	if c.AnalysisDuration != nil {
		c.AnalysisDuration.Observe(elapsed.Seconds())
	}
}

// SetCatalogObjects satisfies the catalog's metrics recorder interface.
func (c *Collector) SetCatalogObjects(n int) {
	if c == nil || c.CatalogObjects == nil {
		return
	}
	c.CatalogObjects.Set(float64(n))
}

// IncCatalogRefresh counts a snapshot swap.
func (c *Collector) IncCatalogRefresh() {
	if c == nil || c.CatalogRefreshes == nil {
		return
	}
	c.CatalogRefreshes.Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
