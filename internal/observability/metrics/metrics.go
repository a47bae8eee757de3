package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "pvreport_"

	resultSuccess = "success"
	resultError   = "error"
)

// Pipeline stages.
const (
	StageSplit   = "split"
	StageOverlay = "overlay"
	StageSummary = "summary"
	StageRun     = "run"
)

var (
	registerOnce sync.Once

	stageTotal   *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec

	rowsProcessed   *prometheus.CounterVec
	unmappedPODs    prometheus.Counter
	profileHours    *prometheus.CounterVec
	overrideRejects prometheus.Counter
)

// Init registers the pipeline metrics on the default registry.
func Init() {
	registerOnce.Do(func() {
		stageTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "stage_total",
				Help: "Total pipeline stage executions by stage and result",
			},
			[]string{"stage", "result"},
		)
		stageLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "stage_latency_seconds",
				Help:    "Pipeline stage latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage", "result"},
		)
		rowsProcessed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_processed_total",
				Help: "Total consumption rows processed by stage",
			},
			[]string{"stage"},
		)
		unmappedPODs = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "unmapped_pod_rows_total",
				Help: "Total consumption rows whose POD has no PV capacity entry",
			},
		)
		profileHours = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "profile_hours_total",
				Help: "Total hourly production records classified by band",
			},
			[]string{"band"},
		)
		overrideRejects = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "pv_override_rejected_total",
				Help: "Total PV metadata overrides rejected by the admin secret check",
			},
		)

		prometheus.MustRegister(
			stageTotal,
			stageLatency,
			rowsProcessed,
			unmappedPODs,
			profileHours,
			overrideRejects,
		)
	})
}

// ObserveStage records stage duration and result.
func ObserveStage(stage string, err error, duration time.Duration) {
	if stage == "" {
		stage = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if stageTotal != nil {
		stageTotal.WithLabelValues(stage, result).Inc()
	}
	if stageLatency != nil {
		stageLatency.WithLabelValues(stage, result).Observe(duration.Seconds())
	}
}

// AddRows increments the processed rows counter of stage.
func AddRows(stage string, count int) {
	if count <= 0 {
		return
	}
	if rowsProcessed != nil {
		rowsProcessed.WithLabelValues(stage).Add(float64(count))
	}
}

// AddUnmappedPODs increments the unmapped POD rows counter.
func AddUnmappedPODs(count int) {
	if count <= 0 {
		return
	}
	if unmappedPODs != nil {
		unmappedPODs.Add(float64(count))
	}
}

// AddProfileHours increments the classified hours counter of band.
func AddProfileHours(band string, count int) {
	if count <= 0 {
		return
	}
	if band == "" {
		band = "unknown"
	}
	if profileHours != nil {
		profileHours.WithLabelValues(band).Add(float64(count))
	}
}

// IncOverrideRejected increments the rejected override counter.
func IncOverrideRejected() {
	if overrideRejects != nil {
		overrideRejects.Inc()
	}
}

// WriteTextfile dumps the default registry in the text exposition format, for a
// node_exporter textfile collector.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
