package dataviewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// OutcomeKind tags the result of a monitor run.
type OutcomeKind int

const (
	// OutcomeCompleted means the data source ended cleanly (e.g. a
	// replay reached the end of its file) or the user quit the
	// interactive view.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeInterrupted means the run context was cancelled, normally
	// by an interrupt signal.
	OutcomeInterrupted
	// OutcomeFailed means the source, a sink or the renderer failed.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// RunOutcome is the tagged result of RunInteractive/RunNonInteractive.
// Err is only set for OutcomeFailed.
type RunOutcome struct {
	Kind OutcomeKind
	Err  error
}

func Completed() RunOutcome       { return RunOutcome{Kind: OutcomeCompleted} }
func Interrupted() RunOutcome     { return RunOutcome{Kind: OutcomeInterrupted} }
func Failed(err error) RunOutcome { return RunOutcome{Kind: OutcomeFailed, Err: err} }

// Monitor is a configured data-viewing session. Exactly one of the two
// run methods is invoked per process, chosen by the launcher.
type Monitor interface {
	Name() string
	Type() string
	RunInteractive(ctx context.Context) RunOutcome
	RunNonInteractive(ctx context.Context) RunOutcome
	Logger() *logrus.Logger
}

// FromConfigFile builds a monitor from an INI configuration file. The
// result is a pure function of the file contents (plus the session
// name, which is generated).
func FromConfigFile(path string) (Monitor, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}

// FromConfig builds a monitor from an already-loaded config.
func FromConfig(cfg *Config) (Monitor, error) {
	log := newMonitorLogger()

	srcFactory, err := LookupSource(cfg.Source.Kind)
	if err != nil {
		return nil, err
	}
	src, err := srcFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s source: %w", cfg.Source.Kind, err)
	}

	monFactory, err := LookupMonitor(cfg.Monitor.Type)
	if err != nil {
		return nil, err
	}
	mon, err := monFactory(cfg, src, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s monitor: %w", cfg.Monitor.Type, err)
	}
	return mon, nil
}

func newMonitorLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	})
	return log
}

// renderer is the per-type part of a monitor: it turns a snapshot into
// log fields and display lines.
type renderer interface {
	// decorate lets a monitor type enrich the snapshot (e.g. decode
	// statevector bits) before it is delivered.
	decorate(snap *Snapshot)
	// lines renders the snapshot for the interactive view.
	lines(snap *Snapshot) []string
	// fields summarises one channel for headless logging.
	fields(st ChannelStats) logrus.Fields
}

// monitorCore carries the machinery shared by all monitor types: the
// frame pump, the buffer, staleness tracking, sinks, the status server
// and session output.
type monitorCore struct {
	cfg     *Config
	src     DataSource
	log     *logrus.Logger
	buffer  *Buffer
	session *Session
	render  renderer

	sinks   []Sink
	metrics *monitorMetrics
	server  *StatusServer
	out     *Output

	// healthy flips to false when no frame arrives within the
	// stale-after window, and back on the next frame.
	healthy  atomic.Bool
	gotFrame atomic.Bool
}

func newMonitorCore(cfg *Config, src DataSource, log *logrus.Logger, render renderer) (*monitorCore, error) {
	session, err := NewSession(cfg.Monitor.Title)
	if err != nil {
		return nil, err
	}

	m := &monitorCore{
		cfg:     cfg,
		src:     src,
		log:     log,
		buffer:  NewBuffer(cfg.Channels, cfg.Monitor.Lookback),
		session: session,
		render:  render,
		metrics: newMonitorMetrics(session.Name),
	}

	if cfg.Output.Dir != "" {
		out, err := NewOutput(cfg.Output.Dir, session.Name)
		if err != nil {
			return nil, err
		}
		if cfg.Path != "" {
			if err := out.CopyConfig(cfg.Path); err != nil {
				return nil, err
			}
		}
		m.out = out
	}
	if cfg.Redis.Enabled {
		sink, err := NewRedisSink(cfg.Redis, session.Name)
		if err != nil {
			return nil, err
		}
		m.sinks = append(m.sinks, sink)
	}
	if cfg.Server.Enabled {
		m.server = NewStatusServer(cfg.Server.Addr, m)
	}
	return m, nil
}

func (m *monitorCore) Name() string {
	if m.cfg.Monitor.Title != "" {
		return m.cfg.Monitor.Title
	}
	return m.session.Name
}

func (m *monitorCore) Type() string {
	return m.cfg.Monitor.Type
}

func (m *monitorCore) Logger() *logrus.Logger {
	return m.log
}

// Ready reports whether the monitor has received data and is not
// stale. Used by the status server readyz handler.
func (m *monitorCore) Ready() (bool, error) {
	if !m.gotFrame.Load() {
		return false, fmt.Errorf("no data received yet")
	}
	if !m.healthy.Load() {
		return false, fmt.Errorf("no data for more than %s", m.cfg.Monitor.StaleAfter)
	}
	return true, nil
}

func (m *monitorCore) RunInteractive(ctx context.Context) RunOutcome {
	return m.run(ctx, true)
}

func (m *monitorCore) RunNonInteractive(ctx context.Context) RunOutcome {
	return m.run(ctx, false)
}

// errQuit marks a user-requested quit from the interactive view.
var errQuit = errors.New("quit")

func (m *monitorCore) run(ctx context.Context, interactive bool) RunOutcome {
	m.log.WithFields(logrus.Fields{
		"session":  m.session.Name,
		"type":     m.Type(),
		"source":   m.src.Name(),
		"channels": len(m.cfg.Channels),
	}).Info("Starting monitor")

	if m.server != nil {
		if err := m.server.Start(); err != nil {
			return Failed(err)
		}
		defer m.server.Stop()
	}
	defer m.closeSinks()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	frames := make(chan *Frame, 8)

	// source: a nil return means clean end of stream
	g.Go(func() error {
		defer close(frames)
		if err := m.src.Run(gctx, frames); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("source %s: %w", m.src.Name(), err)
		}
		return nil
	})

	// pump: frames into the buffer, tracking staleness the same way a
	// watchdog block timer does. pumpDone closes only after the pump has
	// exited, so by then every received frame is in the buffer.
	pumpDone := make(chan struct{})
	g.Go(func() error {
		defer close(pumpDone)
		stale := time.NewTimer(m.cfg.Monitor.StaleAfter)
		defer stale.Stop()
		for {
			select {
			case frame, ok := <-frames:
				if !ok {
					return nil
				}
				if err := m.buffer.Append(frame); err != nil {
					return err
				}
				m.gotFrame.Store(true)
				m.healthy.Store(true)
				m.metrics.observeFrame(frame)
				stale.Reset(m.cfg.Monitor.StaleAfter)
			case <-stale.C:
				if m.healthy.Swap(false) {
					m.log.WithField("stale-after", m.cfg.Monitor.StaleAfter).Warn("No data received, marking stale")
					m.metrics.setStale(true)
				}
				stale.Reset(m.cfg.Monitor.StaleAfter)
			case <-gctx.Done():
				return nil
			}
		}
	})

	// consumer: periodic snapshots to the display, the log, sinks and
	// the output dir
	g.Go(func() error {
		if interactive {
			return m.runDisplay(gctx, pumpDone)
		}
		return m.runHeadless(gctx, pumpDone)
	})

	err := g.Wait()
	switch {
	case err == nil || errors.Is(err, errQuit):
		m.log.WithField("session", m.session.Name).Info("Monitor finished")
		return Completed()
	case errors.Is(err, errInterrupted):
		return Interrupted()
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return Interrupted()
	case errors.Is(err, context.Canceled):
		return Completed()
	default:
		return Failed(err)
	}
}

// snapshot builds and distributes one refresh tick.
func (m *monitorCore) snapshot(ctx context.Context) (*Snapshot, error) {
	snap := m.buffer.Snapshot(trendWidth)
	snap.Session = m.session.Name
	m.render.decorate(snap)
	m.metrics.observeSnapshot(snap)

	for _, sink := range m.sinks {
		if err := sink.Publish(ctx, snap); err != nil {
			return nil, fmt.Errorf("sink %s: %w", sink.Name(), err)
		}
	}
	if m.out != nil && m.cfg.Output.Snapshots {
		name := fmt.Sprintf("snapshots/%d.yaml", snap.Time.UnixMilli())
		if err := m.out.WriteFile(name, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (m *monitorCore) runHeadless(ctx context.Context, pumpDone <-chan struct{}) error {
	ticker := time.NewTicker(m.cfg.Monitor.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap, err := m.snapshot(ctx)
			if err != nil {
				return err
			}
			m.logSnapshot(snap)
		case <-pumpDone:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// final snapshot so short replays still report
			snap, err := m.snapshot(ctx)
			if err != nil {
				return err
			}
			m.logSnapshot(snap)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *monitorCore) logSnapshot(snap *Snapshot) {
	for _, st := range snap.Channels {
		if st.N == 0 {
			continue
		}
		m.log.WithFields(m.render.fields(st)).Info(st.Channel)
	}
}

func (m *monitorCore) closeSinks() {
	for _, sink := range m.sinks {
		if err := sink.Close(); err != nil {
			m.log.WithError(err).WithField("sink", sink.Name()).Warn("Failed to close sink")
		}
	}
}
