package dataviewer

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotLoopCore(t *testing.T) *monitorCore {
	t.Helper()
	cfg := simConfig(t, "L1:A")
	src := &scriptedSource{channels: cfg.Channels}
	mon := scriptedMonitor(t, cfg, src)
	return mon.(*timeSeriesMonitor).monitorCore
}

func TestSnapshotLoopStopsWhenDisplayEnds(t *testing.T) {
	core := snapshotLoopCore(t)
	core.cfg.Monitor.Refresh = 10 * time.Millisecond

	var mu sync.Mutex
	sent := 0
	send := func(tea.Msg) {
		mu.Lock()
		sent++
		mu.Unlock()
	}

	pumpDone := make(chan struct{})
	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- core.snapshotLoop(context.Background(), pumpDone, stop, send) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return sent > 0
	}, 2*time.Second, 5*time.Millisecond)

	close(stop)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot loop did not stop")
	}

	// no further snapshots once the loop has returned
	mu.Lock()
	before := sent
	mu.Unlock()
	time.Sleep(5 * core.cfg.Monitor.Refresh)
	mu.Lock()
	assert.Equal(t, before, sent)
	mu.Unlock()
}

func TestSnapshotLoopFinalSnapshotBeforeDone(t *testing.T) {
	core := snapshotLoopCore(t)
	core.cfg.Monitor.Refresh = time.Hour

	msgs := make(chan tea.Msg, 4)
	send := func(m tea.Msg) { msgs <- m }

	pumpDone := make(chan struct{})
	close(pumpDone)
	stop := make(chan struct{})
	defer close(stop)
	go core.snapshotLoop(context.Background(), pumpDone, stop, send) //nolint:errcheck

	recv := func() tea.Msg {
		select {
		case m := <-msgs:
			return m
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for display message")
			return nil
		}
	}
	_, ok := recv().(snapMsg)
	assert.True(t, ok, "expected a snapshot before the done message")
	_, ok = recv().(sourceDoneMsg)
	assert.True(t, ok, "expected the done message after the final snapshot")
}
