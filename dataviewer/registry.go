package dataviewer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// MonitorFactory builds a monitor of one type from a loaded config and
// a data source.
type MonitorFactory func(cfg *Config, src DataSource, log *logrus.Logger) (Monitor, error)

var (
	monitorsMu sync.RWMutex
	monitors   = map[string]MonitorFactory{}
)

// RegisterMonitor registers a monitor factory under the given type
// name. It fails if the name is already taken, use
// RegisterMonitorForce to overwrite.
func RegisterMonitor(typ string, factory MonitorFactory) error {
	monitorsMu.Lock()
	defer monitorsMu.Unlock()

	if _, ok := monitors[typ]; ok {
		return fmt.Errorf("monitor type %q already registered", typ)
	}
	monitors[typ] = factory
	return nil
}

// RegisterMonitorForce registers a monitor factory, replacing any
// existing registration for the same type name.
func RegisterMonitorForce(typ string, factory MonitorFactory) {
	monitorsMu.Lock()
	defer monitorsMu.Unlock()
	monitors[typ] = factory
}

// LookupMonitor returns the factory registered for the given type.
func LookupMonitor(typ string) (MonitorFactory, error) {
	monitorsMu.RLock()
	defer monitorsMu.RUnlock()

	factory, ok := monitors[typ]
	if !ok {
		return nil, fmt.Errorf("no monitor registered with type %q", typ)
	}
	return factory, nil
}

// Monitors returns the sorted list of registered monitor type names.
func Monitors() []string {
	monitorsMu.RLock()
	defer monitorsMu.RUnlock()

	names := make([]string, 0, len(monitors))
	for name := range monitors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustRegisterMonitor(typ string, factory MonitorFactory) {
	if err := RegisterMonitor(typ, factory); err != nil {
		panic(fmt.Sprintf("BUG: %v", err))
	}
}
