package recordstore

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	ops     *prometheus.CounterVec
	records prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster",
			Name:      "operations_total",
			Help:      "Record store operations by kind and outcome.",
		}, []string{"op", "result"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roster",
			Name:      "records",
			Help:      "Records currently held in the cache.",
		}),
	}
	m.ops = register(reg, m.ops)
	m.records = register(reg, m.records)
	return m
}

// register adds c to reg, reusing an identical collector that another store
// already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.ops.WithLabelValues(op, result).Inc()
}
