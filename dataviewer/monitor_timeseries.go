package dataviewer

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

func init() {
	mustRegisterMonitor("timeseries", newTimeSeriesMonitor)
	mustRegisterMonitor("stats", newStatsMonitor)
	mustRegisterMonitor("statevector", newStateVectorMonitor)
}

// timeSeriesMonitor shows the lookback window of each channel as a
// sparkline next to its latest value.
type timeSeriesMonitor struct {
	*monitorCore
}

func newTimeSeriesMonitor(cfg *Config, src DataSource, log *logrus.Logger) (Monitor, error) {
	m := &timeSeriesMonitor{}
	core, err := newMonitorCore(cfg, src, log, m)
	if err != nil {
		return nil, err
	}
	m.monitorCore = core
	return m, nil
}

func (m *timeSeriesMonitor) decorate(snap *Snapshot) {}

func (m *timeSeriesMonitor) lines(snap *Snapshot) []string {
	out := make([]string, 0, len(snap.Channels))
	for _, st := range snap.Channels {
		body := fmt.Sprintf("%s %s", sparkline(snap.Trends[st.Channel], trendWidth), formatValue(st.Last, m.unit(st.Channel)))
		out = append(out, m.statusLine(st, body))
	}
	return out
}

func (m *timeSeriesMonitor) fields(st ChannelStats) logrus.Fields {
	return logrus.Fields{
		"last": st.Last,
		"n":    st.N,
	}
}

func (m *timeSeriesMonitor) unit(channel string) string {
	if c := m.cfg.Channels.Find(channel); c != nil {
		return c.Unit
	}
	return ""
}

func formatValue(v float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%.4g", v)
	}
	return fmt.Sprintf("%.4g %s", v, unit)
}
