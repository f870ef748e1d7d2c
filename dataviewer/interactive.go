package dataviewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// trendWidth is the number of sparkline cells rendered per channel.
const trendWidth = 40

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	staleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	waitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

type snapMsg *Snapshot

type sourceDoneMsg struct{}

// runDisplay drives the interactive terminal view. It returns errQuit
// on a user quit, errInterrupted on ctrl+c, or the context error.
func (m *monitorCore) runDisplay(ctx context.Context, pumpDone <-chan struct{}) error {
	model := newDisplayModel(m)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	snapErr := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		if err := m.snapshotLoop(ctx, pumpDone, stop, p.Send); err != nil {
			snapErr <- err
			p.Quit()
		}
	}()

	final, err := p.Run()
	close(stop)
	select {
	case serr := <-snapErr:
		return serr
	default:
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("display: %w", err)
	}
	if dm, ok := final.(*displayModel); ok && dm.interrupted {
		return errInterrupted
	}
	return errQuit
}

// snapshotLoop feeds snapshots to the display on the refresh tick. It
// stops when the program has ended (stop), the context is cancelled,
// or a snapshot fails. Once the frame pump has drained (pumpDone) it
// sends one last snapshot, so short replays render fully, followed by
// the done message.
func (m *monitorCore) snapshotLoop(ctx context.Context, pumpDone, stop <-chan struct{}, send func(tea.Msg)) error {
	ticker := time.NewTicker(m.cfg.Monitor.Refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			snap, err := m.snapshot(ctx)
			if err != nil {
				return err
			}
			send(snapMsg(snap))
		case <-pumpDone:
			if ctx.Err() == nil {
				snap, err := m.snapshot(ctx)
				if err != nil {
					return err
				}
				send(snapMsg(snap))
			}
			send(sourceDoneMsg{})
			pumpDone = nil
		case <-stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

type displayModel struct {
	core *monitorCore

	spin        spinner.Model
	snap        *Snapshot
	sourceDone  bool
	interrupted bool
}

func newDisplayModel(core *monitorCore) *displayModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &displayModel{core: core, spin: sp}
}

func (m *displayModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m *displayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "ctrl+c":
			m.interrupted = true
			return m, tea.Quit
		}
	case snapMsg:
		m.snap = msg
		return m, nil
	case sourceDoneMsg:
		m.sourceDone = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *displayModel) View() string {
	s := titleStyle.Render(fmt.Sprintf("%s (%s)", m.core.Name(), m.core.Type())) + "\n\n"

	if m.snap == nil {
		s += waitStyle.Render(fmt.Sprintf("%s waiting for data from %s...", m.spin.View(), m.core.src.Name())) + "\n"
	} else {
		for _, line := range m.core.render.lines(m.snap) {
			s += line + "\n"
		}
	}

	s += "\n" + footerStyle.Render("press q to quit")
	return s
}

// sparkline renders values as a fixed-width run of block characters.
func sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}

// statusLine renders the per-channel prefix shared by the monitor
// types: green while fresh, red once the buffer has gone stale.
func (m *monitorCore) statusLine(st ChannelStats, body string) string {
	if st.N == 0 {
		return waitStyle.Render(fmt.Sprintf("  [%s] no data", st.Channel))
	}
	if !m.healthy.Load() {
		return staleStyle.Render(fmt.Sprintf("✗ [%s] %s (stale)", st.Channel, body))
	}
	return okStyle.Render(fmt.Sprintf("● [%s] %s", st.Channel, body))
}

var errInterrupted = errors.New("interrupted")
