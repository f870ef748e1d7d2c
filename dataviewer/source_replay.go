package dataviewer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// replaySource plays back channel data from a CSV file. The first
// column is a time offset in seconds from the start of the run, the
// remaining columns are channel values matching the header row. Rows
// are grouped into frames of the configured duration and emitted in
// real time unless realtime playback is disabled.
type replaySource struct {
	channels ChannelList
	path     string
	frame    time.Duration
	realtime bool
	loop     bool
}

func newReplaySource(cfg *Config) (DataSource, error) {
	if cfg.Source.File == "" {
		return nil, fmt.Errorf("replay source requires a file")
	}
	if _, err := os.Stat(cfg.Source.File); err != nil {
		return nil, fmt.Errorf("replay file: %w", err)
	}
	return &replaySource{
		channels: cfg.Channels,
		path:     cfg.Source.File,
		frame:    cfg.Source.Frame,
		realtime: cfg.Source.Realtime,
		loop:     cfg.Source.Loop,
	}, nil
}

func (s *replaySource) Name() string {
	return "replay"
}

func (s *replaySource) Channels() ChannelList {
	return s.channels
}

func (s *replaySource) Run(ctx context.Context, out chan<- *Frame) error {
	for {
		if err := s.playOnce(ctx, out); err != nil {
			return err
		}
		if !s.loop {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (s *replaySource) playOnce(ctx context.Context, out chan<- *Frame) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read replay header: %w", err)
	}
	if len(header) < 2 || header[0] != "time" {
		return fmt.Errorf("replay header must be 'time,<channel>,...', got %v", header)
	}
	cols := header[1:]
	for _, name := range cols {
		if s.channels.Find(name) == nil {
			return fmt.Errorf("replay file column %q is not a configured channel", name)
		}
	}

	start := time.Now()
	var (
		rows [][]float64
		offs []float64
	)

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		// derive the sample step from row spacing, falling back to the
		// frame duration for a single row
		dt := s.frame
		if len(offs) > 1 {
			dt = time.Duration((offs[len(offs)-1] - offs[0]) / float64(len(offs)-1) * float64(time.Second))
		}
		if dt <= 0 {
			dt = time.Millisecond
		}
		frame := &Frame{
			T0:   start.Add(time.Duration(offs[0] * float64(time.Second))),
			Dt:   dt,
			Data: make(map[string][]float64, len(cols)),
		}
		for i, name := range cols {
			samples := make([]float64, len(rows))
			for j, row := range rows {
				samples[j] = row[i]
			}
			frame.Data[name] = samples
		}

		if s.realtime {
			wait := time.Until(frame.Span().End)
			if wait > 0 {
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		select {
		case out <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
		rows = rows[:0]
		offs = offs[:0]
		return nil
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read replay row: %w", err)
		}
		if len(record) != len(header) {
			return fmt.Errorf("replay row has %d columns, expected %d", len(record), len(header))
		}

		off, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return fmt.Errorf("invalid time offset %q: %w", record[0], err)
		}
		row := make([]float64, len(cols))
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q for channel %s: %w", field, cols[i], err)
			}
			row[i] = v
		}

		if len(offs) > 0 && time.Duration((off-offs[0])*float64(time.Second)) >= s.frame {
			if err := flush(); err != nil {
				return err
			}
		}
		rows = append(rows, row)
		offs = append(offs, off)
	}
	return flush()
}
