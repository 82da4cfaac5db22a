package query

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts engine events per query name.
type Metrics struct {
	Executions    *prometheus.CounterVec
	Hits          *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	Backdates     *prometheus.CounterVec
	Cancellations *prometheus.CounterVec
}

// NewMetrics creates unregistered counters.
func NewMetrics() *Metrics {
	const (
		namespace = "dada"
		subsystem = "query"
	)
	labels := []string{"query"}
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}
	return &Metrics{
		Executions:    counter("executions_total", "Number of times a query body ran"),
		Hits:          counter("hits_total", "Number of reads served by an entry verified at the current revision"),
		Verifications: counter("verifications_total", "Number of stale entries whose dependencies were re-checked"),
		Backdates:     counter("backdates_total", "Number of executions whose result equalled the previous one"),
		Cancellations: counter("cancellations_total", "Number of executions abandoned because the read was cancelled"),
	}
}

func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Executions,
		m.Hits,
		m.Verifications,
		m.Backdates,
		m.Cancellations,
	}
}
