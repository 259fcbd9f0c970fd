package health

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Probe names used as metric labels.
const (
	probeLiveness  = "liveness"
	probeReadiness = "readiness"

	resultOK            = "ok"
	resultNotReady      = "not_ready"
	resultNotConfigured = "not_configured"
)

// Metrics holds Prometheus collectors for health probes.
type Metrics struct {
	probesTotal *prometheus.CounterVec
	flag        *prometheus.GaugeVec
}

// NewMetrics creates unregistered health collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "health",
				Name:      "probes_total",
				Help:      "Total number of health probes served, by probe and result.",
			},
			[]string{"probe", "result"},
		),
		flag: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "health",
				Name:      "flag",
				Help:      "Current readiness flag value (1=ready, 0=not ready).",
			},
			[]string{"key"},
		),
	}
}

// MustRegister registers all collectors with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.probesTotal, m.flag)
}

// Collectors returns the underlying collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.probesTotal, m.flag}
}

func (m *Metrics) observeProbe(probe, result string) {
	if m == nil {
		return
	}
	m.probesTotal.WithLabelValues(probe, result).Inc()
}

func (m *Metrics) observeRegistry(r Registry) {
	if m == nil {
		return
	}
	// Keys dropped from the registry must not keep their last value.
	m.flag.Reset()
	for k, v := range r {
		val := 0.0
		if v {
			val = 1
		}
		m.flag.WithLabelValues(k).Set(val)
	}
}
