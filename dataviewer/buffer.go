package dataviewer

import (
	"fmt"
	"sync"
	"time"
)

// Buffer holds the most recent data for a set of channels. Data arrives
// in frames and is kept as per-channel lists of contiguous series,
// coalesced on append and pruned to a lookback horizon.
//
// All methods are safe for concurrent use; the frame pump appends while
// renderers and sinks read snapshots.
type Buffer struct {
	mu       sync.RWMutex
	channels ChannelList
	lookback time.Duration
	data     map[string][]*Series
}

// NewBuffer creates a buffer for the given channels. A non-positive
// lookback keeps all data.
func NewBuffer(channels ChannelList, lookback time.Duration) *Buffer {
	data := make(map[string][]*Series, len(channels))
	for _, c := range channels {
		data[c.Name] = nil
	}
	return &Buffer{channels: channels, lookback: lookback, data: data}
}

// Channels returns the channels this buffer tracks.
func (b *Buffer) Channels() ChannelList {
	return b.channels
}

// Append folds one frame into the buffer. Samples for channels the
// buffer does not track are ignored. Frames may arrive out of order;
// overlapping or touching series are merged.
func (b *Buffer) Append(f *Frame) error {
	if err := f.validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for name, samples := range f.Data {
		if _, ok := b.data[name]; !ok {
			continue
		}
		if len(samples) == 0 {
			continue
		}
		s := &Series{Channel: name, T0: f.T0, Dt: f.Dt, Samples: samples}
		b.data[name] = insertSeries(b.data[name], s)
	}
	b.prune()
	return nil
}

// insertSeries places s into the sorted list, merging with neighbours
// that touch or overlap.
func insertSeries(list []*Series, s *Series) []*Series {
	out := make([]*Series, 0, len(list)+1)
	placed := false
	for _, cur := range list {
		if placed {
			out = append(out, cur)
			continue
		}
		switch {
		case cur.Span().contiguous(s.Span()) && cur.Dt == s.Dt:
			s = mergeSeries(cur, s)
		case cur.T0.After(s.T0):
			out = append(out, s)
			out = append(out, cur)
			placed = true
		default:
			out = append(out, cur)
		}
	}
	if !placed {
		out = append(out, s)
	}
	return out
}

// mergeSeries combines two touching or overlapping series with the
// same sample step. On overlap the later series wins.
func mergeSeries(a, b *Series) *Series {
	if b.T0.Before(a.T0) {
		a, b = b, a
	}
	// offset of b within a, in samples
	off := int(b.T0.Sub(a.T0) / a.Dt)
	n := off + len(b.Samples)
	if len(a.Samples) > n {
		n = len(a.Samples)
	}
	samples := make([]float64, n)
	copy(samples, a.Samples)
	copy(samples[off:], b.Samples)
	return &Series{Channel: a.Channel, T0: a.T0, Dt: a.Dt, Samples: samples}
}

// prune drops data older than the lookback horizon. Caller holds the
// write lock.
func (b *Buffer) prune() {
	if b.lookback <= 0 {
		return
	}
	end := b.extentLocked().End
	if end.IsZero() {
		return
	}
	horizon := Segment{Start: end.Add(-b.lookback), End: end}
	for name, list := range b.data {
		var kept []*Series
		for _, s := range list {
			c := s.Crop(horizon)
			if len(c.Samples) > 0 {
				kept = append(kept, c)
			}
		}
		b.data[name] = kept
	}
}

// Get returns the data for one channel inside seg, cropped and merged
// into the fewest possible series.
func (b *Buffer) Get(name string, seg Segment) ([]*Series, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	list, ok := b.data[name]
	if !ok {
		return nil, fmt.Errorf("channel %q not in buffer", name)
	}
	var out []*Series
	for _, s := range list {
		c := s.Crop(seg)
		if len(c.Samples) > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

// Segments returns the coalesced list of intervals for which every
// tracked channel has data.
func (b *Buffer) Segments() SegmentList {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var common SegmentList
	first := true
	for _, c := range b.channels {
		var segs SegmentList
		for _, s := range b.data[c.Name] {
			segs = append(segs, s.Span())
		}
		segs = segs.Coalesce()
		if first {
			common = segs
			first = false
		} else {
			common = common.Intersect(segs)
		}
	}
	return common
}

// Extent returns the segment enclosing all buffered data. Gaps may be
// present inside the extent.
func (b *Buffer) Extent() Segment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.extentLocked()
}

func (b *Buffer) extentLocked() Segment {
	var all SegmentList
	for _, list := range b.data {
		for _, s := range list {
			all = append(all, s.Span())
		}
	}
	return all.Extent()
}

// Snapshot summarises the current buffer contents. trendSize > 0 also
// downsamples the lookback window of each channel into a fixed-size
// trend for sparkline rendering.
func (b *Buffer) Snapshot(trendSize int) *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := &Snapshot{Time: time.Now()}
	if trendSize > 0 {
		snap.Trends = make(map[string][]float64, len(b.channels))
	}
	for _, c := range b.channels {
		merged := concatSamples(b.data[c.Name])
		st := merged.Stats()
		st.Channel = c.Name
		snap.Channels = append(snap.Channels, st)
		if trendSize > 0 {
			snap.Trends[c.Name] = downsample(merged.Samples, trendSize)
		}
	}
	return snap
}

// concatSamples flattens a series list into a single series, ignoring
// gaps. Good enough for summary statistics and trends.
func concatSamples(list []*Series) *Series {
	if len(list) == 0 {
		return &Series{}
	}
	out := &Series{Channel: list[0].Channel, T0: list[0].T0, Dt: list[0].Dt}
	for _, s := range list {
		out.Samples = append(out.Samples, s.Samples...)
	}
	return out
}

// downsample reduces samples to at most size points by bucket
// averaging.
func downsample(samples []float64, size int) []float64 {
	if len(samples) <= size {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}
	out := make([]float64, size)
	bucket := float64(len(samples)) / float64(size)
	for i := 0; i < size; i++ {
		lo := int(float64(i) * bucket)
		hi := int(float64(i+1) * bucket)
		if hi > len(samples) {
			hi = len(samples)
		}
		var sum float64
		for _, v := range samples[lo:hi] {
			sum += v
		}
		if hi > lo {
			out[i] = sum / float64(hi-lo)
		}
	}
	return out
}
