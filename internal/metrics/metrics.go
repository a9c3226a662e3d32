package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	Playing = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tonestream_playing",
		Help: "1 while a playback session is active",
	})
	FrequencyHz = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tonestream_frequency_hz",
		Help: "Most recently requested tone frequency",
	})
)

// Counters
var (
	SessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonestream_sessions_total",
		Help: "Total playback sessions started",
	})
	BlocksWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonestream_blocks_written_total",
		Help: "Total sample blocks accepted by the sink",
	})
	SinkWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonestream_sink_write_errors_total",
		Help: "Total sink writes that returned an error",
	})
	UnderrunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonestream_underruns_total",
		Help: "Device callbacks that found too few buffered samples, by backend",
	}, []string{"backend"})
)

// Histograms
var (
	SinkWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tonestream_sink_write_duration_ms",
		Help:    "Time a block write spent blocked in the sink, in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
	})
)
