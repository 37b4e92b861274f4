// Package metrics expone contadores Prometheus de login y pagos.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/happyshop-api/internal/application/auth"
	"github.com/jhoicas/happyshop-api/internal/application/checkout"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
)

var (
	_ auth.LoginObserver       = (*Metrics)(nil)
	_ checkout.PaymentObserver = (*Metrics)(nil)
)

// Metrics contadores de la aplicación sobre un registry propio.
type Metrics struct {
	registry      *prometheus.Registry
	payments      *prometheus.CounterVec
	logins        *prometheus.CounterVec
	auditFailures prometheus.Counter
}

// New registra los contadores en un registry nuevo (más los collectors de Go y proceso).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "happyshop",
			Name:      "payments_total",
			Help:      "Pagos procesados por método y estado final.",
		}, []string{"method", "status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "happyshop",
			Name:      "logins_total",
			Help:      "Intentos de login por resultado.",
		}, []string{"outcome"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "happyshop",
			Name:      "audit_write_failures_total",
			Help:      "Pagos completados que no se pudieron registrar.",
		}),
	}
	m.registry.MustRegister(
		m.payments, m.logins, m.auditFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePayment implementa checkout.PaymentObserver.
func (m *Metrics) ObservePayment(method entity.PaymentMethod, status entity.PaymentStatus) {
	m.payments.WithLabelValues(string(method), string(status)).Inc()
}

// ObserveAuditFailure implementa checkout.PaymentObserver.
func (m *Metrics) ObserveAuditFailure() { m.auditFailures.Inc() }

// ObserveLogin implementa auth.LoginObserver.
func (m *Metrics) ObserveLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// Registry registry subyacente (tests y exportadores).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler handler HTTP de /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
