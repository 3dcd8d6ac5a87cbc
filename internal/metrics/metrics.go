// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CapturePacketsTotal counts frames appended to a session
	CapturePacketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvis_capture_packets_total",
			Help: "Total number of packets captured",
		},
		[]string{"device"},
	)

	// CaptureBytesTotal counts captured frame bytes
	CaptureBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvis_capture_bytes_total",
			Help: "Total number of captured bytes",
		},
		[]string{"device"},
	)

	// CaptureReadErrorsTotal counts handle read failures by kind (timeout, fatal)
	CaptureReadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvis_capture_read_errors_total",
			Help: "Total number of capture read errors",
		},
		[]string{"device", "kind"},
	)

	// CaptureSessionsRunning tracks sessions with a live acquisition loop
	CaptureSessionsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netvis_capture_sessions_running",
			Help: "Number of capture sessions currently running",
		},
	)

	// CaptureSessionSeconds measures time from start to stopped
	CaptureSessionSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netvis_capture_session_seconds",
			Help:    "Duration of capture sessions in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1h
		},
	)

	// PacketsClassifiedTotal counts summarized packets by layer
	PacketsClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvis_packets_classified_total",
			Help: "Total number of packets classified, by protocol layer",
		},
		[]string{"layer"},
	)
)
