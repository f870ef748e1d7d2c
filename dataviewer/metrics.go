package dataviewer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// monitorMetrics collects the prometheus metrics exposed by the status
// server. Each monitor owns its own registry so repeated construction
// (e.g. in tests) does not trip duplicate registration.
type monitorMetrics struct {
	registry *prometheus.Registry

	framesTotal  prometheus.Counter
	samplesTotal prometheus.Counter
	stale        prometheus.Gauge
	lastValue    *prometheus.GaugeVec
}

func newMonitorMetrics(session string) *monitorMetrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"session": session}

	m := &monitorMetrics{
		registry: registry,
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "dataviewer",
			Name:        "frames_total",
			Help:        "Number of data frames received from the source.",
			ConstLabels: labels,
		}),
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "dataviewer",
			Name:        "samples_total",
			Help:        "Number of samples received across all channels.",
			ConstLabels: labels,
		}),
		stale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "dataviewer",
			Name:        "stale",
			Help:        "1 when no data has arrived within the stale-after window.",
			ConstLabels: labels,
		}),
		lastValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "dataviewer",
			Name:        "channel_last_value",
			Help:        "Latest sample per channel.",
			ConstLabels: labels,
		}, []string{"channel"}),
	}

	registry.MustRegister(m.framesTotal, m.samplesTotal, m.stale, m.lastValue)
	return m
}

func (m *monitorMetrics) observeFrame(f *Frame) {
	m.framesTotal.Inc()
	n := 0
	for _, samples := range f.Data {
		n += len(samples)
	}
	m.samplesTotal.Add(float64(n))
	m.stale.Set(0)
}

func (m *monitorMetrics) observeSnapshot(snap *Snapshot) {
	for _, st := range snap.Channels {
		if st.N > 0 {
			m.lastValue.WithLabelValues(st.Channel).Set(st.Last)
		}
	}
}

func (m *monitorMetrics) setStale(stale bool) {
	if stale {
		m.stale.Set(1)
	} else {
		m.stale.Set(0)
	}
}
