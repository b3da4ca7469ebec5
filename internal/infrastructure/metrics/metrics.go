// Package metrics expone métricas Prometheus de los reportes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos_analytics"

// Recorder registro propio (no el global) para que las pruebas no choquen entre sí.
type Recorder struct {
	registry       *prometheus.Registry
	reportDuration *prometheus.HistogramVec
	reportErrors   *prometheus.CounterVec
	rateLimited    prometheus.Counter
}

// NewRecorder crea el registro con las métricas de reportes y los collectors de proceso y Go.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Duración de la generación de cada reporte.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"report", "status"}),
		reportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_errors_total",
			Help:      "Reportes fallidos por tipo de error.",
		}, []string{"report", "kind"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rechazados por rate limit.",
		}),
	}
	reg.MustRegister(
		r.reportDuration,
		r.reportErrors,
		r.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveReport registra la duración de un reporte; status es el código HTTP.
func (r *Recorder) ObserveReport(report, status string, d time.Duration) {
	r.reportDuration.WithLabelValues(report, status).Observe(d.Seconds())
}

// ReportFailed cuenta un reporte fallido. kind: validation, timeout, canceled, internal.
func (r *Recorder) ReportFailed(report, kind string) {
	r.reportErrors.WithLabelValues(report, kind).Inc()
}

// RateLimited cuenta un request rechazado.
func (r *Recorder) RateLimited() { r.rateLimited.Inc() }

// Handler handler HTTP para /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry registro subyacente.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }
