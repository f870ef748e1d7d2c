package dataviewer

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Channel describes a single data channel in the observatory naming
// convention `IFO:SYSTEM-SIGNAL`, e.g. "L1:GDS-CALIB_STRAIN".
type Channel struct {
	Name       string
	Ifo        string
	System     string
	Signal     string
	SampleRate float64
	Unit       string

	// Simulation parameters, only used by the sim source.
	Amplitude float64
	Frequency float64
	Offset    float64
	Noise     float64

	// Bit labels for statevector channels, index -> label.
	Bits []string
}

// ParseChannel splits a channel name into its interferometer, system
// and signal parts. The system/signal split is optional, names without
// a '-' keep the whole tail as the signal.
func ParseChannel(name string) (*Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty channel name")
	}

	c := &Channel{Name: name, SampleRate: defaultSampleRate, Amplitude: 1.0, Frequency: 1.0}

	parts := strings.SplitN(name, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid channel name %q: expected IFO:SIGNAL", name)
	}
	c.Ifo = parts[0]

	tail := parts[1]
	if idx := strings.Index(tail, "-"); idx > 0 {
		c.System = tail[:idx]
		c.Signal = tail[idx+1:]
	} else {
		c.Signal = tail
	}
	return c, nil
}

const defaultSampleRate = 16.0

// SampleStep is the time between consecutive samples of this channel.
func (c *Channel) SampleStep() time.Duration {
	if c.SampleRate <= 0 {
		return time.Second / time.Duration(defaultSampleRate)
	}
	return time.Duration(float64(time.Second) / c.SampleRate)
}

func (c *Channel) String() string {
	return c.Name
}

// ChannelList is an ordered set of channels, unique by name.
type ChannelList []*Channel

// NewChannelList parses the given names, dropping duplicates while
// keeping first-seen order.
func NewChannelList(names ...string) (ChannelList, error) {
	seen := make(map[string]bool)
	list := make(ChannelList, 0, len(names))
	for _, name := range names {
		c, err := ParseChannel(name)
		if err != nil {
			return nil, err
		}
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		list = append(list, c)
	}
	return list, nil
}

// Find returns the channel with the given name, or nil.
func (l ChannelList) Find(name string) *Channel {
	for _, c := range l {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Names returns the channel names in list order.
func (l ChannelList) Names() []string {
	names := make([]string, len(l))
	for i, c := range l {
		names[i] = c.Name
	}
	return names
}

// SortedNames returns the channel names in lexical order. Used by
// renderers that want a stable layout regardless of config order.
func (l ChannelList) SortedNames() []string {
	names := l.Names()
	sort.Strings(names)
	return names
}
