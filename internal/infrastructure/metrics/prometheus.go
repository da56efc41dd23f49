// Package metrics expone las métricas del ciclo de comprobantes y de caja en formato Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Bazar-api/internal/application/ports"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

const namespace = "bazar"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implementa ports.Metrics sobre un registro propio (no el global).
type Prometheus struct {
	registry      *prometheus.Registry
	transitions   *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	submitLatency prometheus.Histogram
	registerOps   *prometheus.CounterVec
}

// NewPrometheus registra los colectores y las métricas de proceso y runtime de Go.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comprobantes",
			Name:      "transitions_total",
			Help:      "Transiciones de estado de comprobantes por estado destino.",
		}, []string{"status"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sunat",
			Name:      "submissions_total",
			Help:      "Envíos a SUNAT por resultado.",
		}, []string{"result"}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sunat",
			Name:      "submission_duration_seconds",
			Help:      "Duración de los envíos a SUNAT.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		registerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "caja",
			Name:      "sessions_total",
			Help:      "Aperturas y cierres de caja.",
		}, []string{"op"}),
	}
	reg.MustRegister(
		p.transitions, p.submissions, p.submitLatency, p.registerOps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) ComprobanteTransition(to entity.ComprobanteStatus) {
	p.transitions.WithLabelValues(string(to)).Inc()
}

func (p *Prometheus) SubmissionObserved(accepted bool, elapsed time.Duration) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	p.submissions.WithLabelValues(result).Inc()
	p.submitLatency.Observe(elapsed.Seconds())
}

func (p *Prometheus) CashRegisterOpened() { p.registerOps.WithLabelValues("open").Inc() }
func (p *Prometheus) CashRegisterClosed() { p.registerOps.WithLabelValues("close").Inc() }

// Handler sirve /metrics para este registro.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry expone el registro (tests).
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
