package dataviewer

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// stateVectorMonitor decodes the latest sample of each channel as a
// bitmask of named flags. Bit labels come from the per-channel `bits`
// option; unnamed bits are labelled by index.
type stateVectorMonitor struct {
	*monitorCore
}

func newStateVectorMonitor(cfg *Config, src DataSource, log *logrus.Logger) (Monitor, error) {
	for _, c := range cfg.Channels {
		if len(c.Bits) == 0 {
			return nil, fmt.Errorf("statevector monitor requires bits for channel %s", c.Name)
		}
	}
	m := &stateVectorMonitor{}
	core, err := newMonitorCore(cfg, src, log, m)
	if err != nil {
		return nil, err
	}
	m.monitorCore = core
	return m, nil
}

func (m *stateVectorMonitor) decorate(snap *Snapshot) {
	snap.States = make(map[string][]StateFlag, len(snap.Channels))
	for _, st := range snap.Channels {
		c := m.cfg.Channels.Find(st.Channel)
		if c == nil || st.N == 0 {
			continue
		}
		snap.States[st.Channel] = decodeStateVector(st.Last, c.Bits)
	}
}

// decodeStateVector expands the integer part of value into one flag
// per label, bit 0 first.
func decodeStateVector(value float64, labels []string) []StateFlag {
	bits := uint64(value)
	flags := make([]StateFlag, len(labels))
	for i, label := range labels {
		flags[i] = StateFlag{
			Bit:    i,
			Label:  label,
			Active: bits&(1<<uint(i)) != 0,
		}
	}
	return flags
}

func (m *stateVectorMonitor) lines(snap *Snapshot) []string {
	out := make([]string, 0, len(snap.Channels))
	for _, st := range snap.Channels {
		parts := make([]string, 0, len(snap.States[st.Channel]))
		for _, flag := range snap.States[st.Channel] {
			mark := "✗"
			if flag.Active {
				mark = "✓"
			}
			parts = append(parts, fmt.Sprintf("%s %s", mark, flag.Label))
		}
		out = append(out, m.statusLine(st, strings.Join(parts, "  ")))
	}
	return out
}

func (m *stateVectorMonitor) fields(st ChannelStats) logrus.Fields {
	fields := logrus.Fields{"value": uint64(st.Last)}
	c := m.cfg.Channels.Find(st.Channel)
	if c == nil {
		return fields
	}
	for _, flag := range decodeStateVector(st.Last, c.Bits) {
		fields[flag.Label] = flag.Active
	}
	return fields
}
