package disco

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Response outcomes
const (
	OutcomeResult  = "result"
	OutcomeError   = "error"
	OutcomeFailure = "failure"
)

// Metrics counts discovery traffic. A nil *Metrics records nothing.
type Metrics struct {
	QueriesSent    *prometheus.CounterVec
	Responses      *prometheus.CounterVec
	InboundQueries prometheus.Counter
	ClientErrors   *prometheus.CounterVec
}

// NewMetrics creates unregistered collectors under namespace
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "disco"
	}
	return &Metrics{
		QueriesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queries",
				Name:      "sent_total",
				Help:      "Total number of discovery queries sent",
			},
			[]string{"namespace"},
		),
		Responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queries",
				Name:      "responses_total",
				Help:      "Total number of discovery query outcomes (result, error, failure)",
			},
			[]string{"namespace", "outcome"},
		),
		InboundQueries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inbound",
				Name:      "queries_total",
				Help:      "Total number of inbound disco#info queries forwarded to the owner",
			},
		),
		ClientErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "requests",
				Name:      "client_errors_total",
				Help:      "Total number of requests rejected by local validation",
			},
			[]string{"field"},
		),
	}
}

// Register adds all collectors to reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.QueriesSent, m.Responses, m.InboundQueries, m.ClientErrors} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) querySent(ns string) {
	if m == nil {
		return
	}
	m.QueriesSent.WithLabelValues(ns).Inc()
}

func (m *Metrics) response(ns, outcome string) {
	if m == nil {
		return
	}
	m.Responses.WithLabelValues(ns, outcome).Inc()
}

func (m *Metrics) inbound() {
	if m == nil {
		return
	}
	m.InboundQueries.Inc()
}

func (m *Metrics) clientError(field string) {
	if m == nil {
		return
	}
	m.ClientErrors.WithLabelValues(field).Inc()
}
