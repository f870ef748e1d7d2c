package dataviewer

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DataSource produces frames of channel data. Run blocks, writing
// frames to out until the source is exhausted (replay reaching EOF) or
// the context is cancelled. A nil error on return means a clean end of
// stream.
type DataSource interface {
	Name() string
	Channels() ChannelList
	Run(ctx context.Context, out chan<- *Frame) error
}

// SourceFactory builds a data source from the source section of a
// config.
type SourceFactory func(cfg *Config) (DataSource, error)

var (
	sourcesMu sync.RWMutex
	sources   = map[string]SourceFactory{}
)

// RegisterSource registers a source factory under the given kind. It
// fails if the kind is already taken, use RegisterSourceForce to
// overwrite.
func RegisterSource(kind string, factory SourceFactory) error {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()

	if _, ok := sources[kind]; ok {
		return fmt.Errorf("data source %q already registered", kind)
	}
	sources[kind] = factory
	return nil
}

// RegisterSourceForce registers a source factory, replacing any
// existing registration for the same kind.
func RegisterSourceForce(kind string, factory SourceFactory) {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()
	sources[kind] = factory
}

// LookupSource returns the factory registered for the given kind.
func LookupSource(kind string) (SourceFactory, error) {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()

	factory, ok := sources[kind]
	if !ok {
		return nil, fmt.Errorf("no data source registered with kind %q", kind)
	}
	return factory, nil
}

// Sources returns the sorted list of registered source kinds.
func Sources() []string {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()

	kinds := make([]string, 0, len(sources))
	for kind := range sources {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func mustRegisterSource(kind string, factory SourceFactory) {
	if err := RegisterSource(kind, factory); err != nil {
		panic(fmt.Sprintf("BUG: %v", err))
	}
}

func init() {
	mustRegisterSource("sim", newSimSource)
	mustRegisterSource("replay", newReplaySource)
}
