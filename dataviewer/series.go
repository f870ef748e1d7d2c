package dataviewer

import (
	"fmt"
	"math"
	"time"
)

// Series holds one contiguous block of samples for a single channel,
// starting at T0 with one sample every Dt.
type Series struct {
	Channel string
	T0      time.Time
	Dt      time.Duration
	Samples []float64
}

// Span returns the segment covered by the series.
func (s *Series) Span() Segment {
	return Segment{Start: s.T0, End: s.T0.Add(time.Duration(len(s.Samples)) * s.Dt)}
}

// End returns the time just after the last sample.
func (s *Series) End() time.Time {
	return s.Span().End
}

// At returns the sample time of index i.
func (s *Series) At(i int) time.Time {
	return s.T0.Add(time.Duration(i) * s.Dt)
}

// Crop returns the part of the series inside seg, sharing the backing
// array. An empty series is returned when there is no overlap.
func (s *Series) Crop(seg Segment) *Series {
	span := s.Span()
	x := span.Intersection(seg)
	if x.IsZero() || s.Dt <= 0 {
		return &Series{Channel: s.Channel, Dt: s.Dt}
	}
	lo := int(x.Start.Sub(s.T0) / s.Dt)
	hi := int((x.End.Sub(s.T0) + s.Dt - 1) / s.Dt)
	if hi > len(s.Samples) {
		hi = len(s.Samples)
	}
	if lo < 0 {
		lo = 0
	}
	return &Series{
		Channel: s.Channel,
		T0:      s.At(lo),
		Dt:      s.Dt,
		Samples: s.Samples[lo:hi],
	}
}

// AppendContiguous extends the series with a block starting exactly at
// its end. The caller must check contiguity via End().
func (s *Series) AppendContiguous(samples []float64) {
	s.Samples = append(s.Samples, samples...)
}

// Stats computes summary statistics over the samples.
func (s *Series) Stats() ChannelStats {
	st := ChannelStats{Channel: s.Channel, N: len(s.Samples)}
	if st.N == 0 {
		return st
	}
	st.Min = math.Inf(1)
	st.Max = math.Inf(-1)
	var sum, sq float64
	for _, v := range s.Samples {
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
		sum += v
		sq += v * v
	}
	st.Last = s.Samples[st.N-1]
	st.Mean = sum / float64(st.N)
	st.RMS = math.Sqrt(sq / float64(st.N))
	st.Span = s.Span()
	return st
}

// Frame is one acquisition block: samples for a set of channels
// covering the same interval at a common sample step.
type Frame struct {
	T0   time.Time
	Dt   time.Duration
	Data map[string][]float64
}

// Span returns the segment covered by the frame.
func (f *Frame) Span() Segment {
	n := 0
	for _, samples := range f.Data {
		if len(samples) > n {
			n = len(samples)
		}
	}
	return Segment{Start: f.T0, End: f.T0.Add(time.Duration(n) * f.Dt)}
}

func (f *Frame) validate() error {
	if f.Dt <= 0 {
		return fmt.Errorf("frame with non-positive sample step %s", f.Dt)
	}
	if len(f.Data) == 0 {
		return fmt.Errorf("frame with no channel data")
	}
	return nil
}

// ChannelStats summarises the samples of one channel over a span.
type ChannelStats struct {
	Channel string  `yaml:"channel" json:"channel"`
	N       int     `yaml:"n" json:"n"`
	Last    float64 `yaml:"last" json:"last"`
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Mean    float64 `yaml:"mean" json:"mean"`
	RMS     float64 `yaml:"rms" json:"rms"`
	Span    Segment `yaml:"-" json:"-"`
}

// Snapshot is a point-in-time view of the whole buffer, consumed by
// renderers, sinks and the status server.
type Snapshot struct {
	Time     time.Time              `yaml:"time" json:"time"`
	Session  string                 `yaml:"session" json:"session"`
	Channels []ChannelStats         `yaml:"channels" json:"channels"`
	Trends   map[string][]float64   `yaml:"-" json:"-"`
	States   map[string][]StateFlag `yaml:"states,omitempty" json:"states,omitempty"`
}

// StateFlag is one decoded statevector bit.
type StateFlag struct {
	Bit    int    `yaml:"bit" json:"bit"`
	Label  string `yaml:"label" json:"label"`
	Active bool   `yaml:"active" json:"active"`
}
