package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DatasetLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phcfinder_dataset_loads_total",
		Help: "Dataset load attempts by result",
	}, []string{"result"})
	DatasetLoadDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "phcfinder_dataset_load_duration_ms",
		Help:    "Time to fetch and decode all datasets in milliseconds",
		Buckets: []float64{5, 10, 50, 100, 250, 500, 1000, 5000, 15000},
	})
	FacilitiesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "phcfinder_facilities_loaded",
		Help: "Facilities in the current snapshot",
	})
	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phcfinder_renders_total",
		Help: "Filter and render passes by trigger",
	}, []string{"trigger"})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "phcfinder_render_duration_ms",
		Help:    "Filter plus list and map render duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100},
	})
	EmptyResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phcfinder_empty_results_total",
		Help: "Render passes that matched no facility",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phcfinder_cache_hits_total",
		Help: "Render cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phcfinder_cache_misses_total",
		Help: "Render cache misses",
	})
	WebSocketSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "phcfinder_ws_sessions",
		Help: "Open control binder sessions",
	})
)

func init() {
	prometheus.MustRegister(DatasetLoadsTotal)
	prometheus.MustRegister(DatasetLoadDurationMs)
	prometheus.MustRegister(FacilitiesLoaded)
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(EmptyResultsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(WebSocketSessions)
}

// ObserveRender records one render pass.
func ObserveRender(trigger string, start time.Time, count int) {
	RendersTotal.WithLabelValues(trigger).Inc()
	RenderDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	if count == 0 {
		EmptyResultsTotal.Inc()
	}
}

func ObserveLoad(start time.Time, err error) {
	DatasetLoadDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		DatasetLoadsTotal.WithLabelValues("failure").Inc()
		return
	}
	DatasetLoadsTotal.WithLabelValues("success").Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
