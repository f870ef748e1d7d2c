package dataviewer

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorRegistryDuplicate(t *testing.T) {
	factory := func(cfg *Config, src DataSource, log *logrus.Logger) (Monitor, error) {
		return nil, nil
	}

	require.NoError(t, RegisterMonitor("registry-test", factory))
	t.Cleanup(func() {
		monitorsMu.Lock()
		delete(monitors, "registry-test")
		monitorsMu.Unlock()
	})

	assert.Error(t, RegisterMonitor("registry-test", factory))
	// force overwrite is allowed
	RegisterMonitorForce("registry-test", factory)

	_, err := LookupMonitor("registry-test")
	assert.NoError(t, err)
}

func TestMonitorRegistryUnknown(t *testing.T) {
	_, err := LookupMonitor("no-such-monitor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-monitor")
}

func TestMonitorRegistryBuiltins(t *testing.T) {
	names := Monitors()
	assert.Contains(t, names, "timeseries")
	assert.Contains(t, names, "stats")
	assert.Contains(t, names, "statevector")
}

func TestSourceRegistryBuiltins(t *testing.T) {
	kinds := Sources()
	assert.Contains(t, kinds, "sim")
	assert.Contains(t, kinds, "replay")

	_, err := LookupSource("no-such-source")
	assert.Error(t, err)
}

func TestSourceRegistryDuplicate(t *testing.T) {
	factory := func(cfg *Config) (DataSource, error) { return nil, nil }

	require.NoError(t, RegisterSource("source-test", factory))
	t.Cleanup(func() {
		sourcesMu.Lock()
		delete(sources, "source-test")
		sourcesMu.Unlock()
	})

	assert.Error(t, RegisterSource("source-test", factory))
	RegisterSourceForce("source-test", factory)
}

// scriptedSource plays a fixed list of frames and then ends, optionally
// with an error. Used across the monitor tests.
type scriptedSource struct {
	channels ChannelList
	frames   []*Frame
	err      error
	block    bool
}

func (s *scriptedSource) Name() string          { return "scripted" }
func (s *scriptedSource) Channels() ChannelList { return s.channels }

func (s *scriptedSource) Run(ctx context.Context, out chan<- *Frame) error {
	for _, f := range s.frames {
		select {
		case out <- f:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}
