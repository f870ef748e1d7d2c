package dataviewer

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// simSource generates synthetic waveforms, one sinusoid plus white
// noise per channel, in frames of a fixed duration. Useful for demos
// and for exercising monitors without a live data server.
type simSource struct {
	channels ChannelList
	rate     float64
	frame    time.Duration
	rng      *rand.Rand
}

func newSimSource(cfg *Config) (DataSource, error) {
	return &simSource{
		channels: cfg.Channels,
		rate:     cfg.Source.SampleRate,
		frame:    cfg.Source.Frame,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (s *simSource) Name() string {
	return "sim"
}

func (s *simSource) Channels() ChannelList {
	return s.channels
}

func (s *simSource) Run(ctx context.Context, out chan<- *Frame) error {
	ticker := time.NewTicker(s.frame)
	defer ticker.Stop()

	n := int(s.rate * s.frame.Seconds())
	if n < 1 {
		n = 1
	}
	dt := s.frame / time.Duration(n)

	t0 := time.Now().Add(-s.frame)
	for {
		frame := &Frame{T0: t0, Dt: dt, Data: make(map[string][]float64, len(s.channels))}
		for _, c := range s.channels {
			frame.Data[c.Name] = s.generate(c, t0, dt, n)
		}

		select {
		case out <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}

		t0 = t0.Add(s.frame)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *simSource) generate(c *Channel, t0 time.Time, dt time.Duration, n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		t := t0.Add(time.Duration(i) * dt)
		phase := 2 * math.Pi * c.Frequency * float64(t.UnixNano()) / float64(time.Second)
		v := c.Offset + c.Amplitude*math.Sin(phase)
		if c.Noise > 0 {
			v += c.Noise * s.rng.NormFloat64()
		}
		samples[i] = v
	}
	return samples
}
