// Package metrics records conversion outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
)

const namespace = "datasweeper"

// Recorder implements datasweeper.Observer on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	filesProcessed *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	inputBytes     prometheus.Counter
	outputBytes    prometheus.Counter
}

var _ datasweeper.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder and registers its collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		filesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Files processed, by requested output format and outcome.",
		}, []string{"format", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_processing_seconds",
			Help:      "Time spent converting one file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"format"}),
		inputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_bytes_total",
			Help:      "Bytes of uploaded content that decoded successfully.",
		}),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_bytes_total",
			Help:      "Bytes of encoded output.",
		}),
	}
	r.registry.MustRegister(r.filesProcessed, r.duration, r.inputBytes, r.outputBytes)
	return r
}

// FileProcessed records one file outcome. The outcome label is "ok" or the
// error kind.
func (r *Recorder) FileProcessed(result models.FileResult, format datasweeper.Format, elapsed time.Duration) {
	outcome := "ok"
	if result.Err != nil {
		outcome = datasweeper.ErrorKind(result.Err)
	}
	r.filesProcessed.WithLabelValues(string(format), outcome).Inc()
	r.duration.WithLabelValues(string(format)).Observe(elapsed.Seconds())
	if result.Details != nil {
		r.inputBytes.Add(float64(result.Details.SizeBytes))
	}
	if result.Output != nil {
		r.outputBytes.Add(float64(len(result.Output.Data)))
	}
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry(), promhttp.HandlerOpts{})
}
