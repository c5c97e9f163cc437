// Package metrics provides Prometheus instrumentation for the HTTP surface
// and the media pipeline.
//
// Example:
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.IngestedAssets.WithLabelValues("upload", "ok").Inc()
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ridgeline/mediavault/pkg/configs"
)

// Global metric variables.
var (
	// RequestCounter counts HTTP requests.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration tracks HTTP request duration.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// IngestedAssets counts per-file ingestion outcomes by source
	// (upload, picker, scan) and status (ok, validation, rate_limited,
	// storage).
	IngestedAssets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_ingested_assets_total",
			Help: "Per-file ingestion outcomes",
		},
		[]string{"source", "status"},
	)

	// ScanFiles counts files seen by the reconciliation scanner by status
	// (created, existing, error).
	ScanFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_scan_files_total",
			Help: "Files seen by the filesystem scanner",
		},
		[]string{"status"},
	)

	// AssetHostRequests counts outbound calls to the external asset host by
	// operation and response status.
	AssetHostRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_asset_host_requests_total",
			Help: "Outbound requests to the external asset host",
		},
		[]string{"operation", "status"},
	)

	// registry is the Prometheus registry.
	registry = prometheus.NewRegistry()
)

// InitMetrics registers collectors according to config.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(RequestCounter, RequestDuration, IngestedAssets, ScanFiles, AssetHostRequests)

	return nil
}

// RegisterEndpoint mounts the metrics handler on the engine.
func RegisterEndpoint(config configs.MetricsConfig, engine *gin.Engine) {
	if !config.Enabled {
		return
	}

	path := config.Path
	if path == "" {
		path = "/metrics"
	}

	engine.GET(path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

// GetRegistry returns the Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return registry
}
