package dataviewer

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// statsMonitor shows running summary statistics per channel instead of
// the raw trend.
type statsMonitor struct {
	*monitorCore
}

func newStatsMonitor(cfg *Config, src DataSource, log *logrus.Logger) (Monitor, error) {
	m := &statsMonitor{}
	core, err := newMonitorCore(cfg, src, log, m)
	if err != nil {
		return nil, err
	}
	m.monitorCore = core
	return m, nil
}

func (m *statsMonitor) decorate(snap *Snapshot) {}

func (m *statsMonitor) lines(snap *Snapshot) []string {
	out := make([]string, 0, len(snap.Channels))
	for _, st := range snap.Channels {
		body := fmt.Sprintf("min=%.4g max=%.4g mean=%.4g rms=%.4g (%d samples)",
			st.Min, st.Max, st.Mean, st.RMS, st.N)
		out = append(out, m.statusLine(st, body))
	}
	return out
}

func (m *statsMonitor) fields(st ChannelStats) logrus.Fields {
	return logrus.Fields{
		"min":  st.Min,
		"max":  st.Max,
		"mean": st.Mean,
		"rms":  st.RMS,
		"n":    st.N,
	}
}
