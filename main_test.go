package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwview/dataviewer/dataviewer"
)

// stubMonitor records which run method the launcher dispatched to.
type stubMonitor struct {
	log            *logrus.Logger
	hook           *logrustest.Hook
	interactive    int
	nonInteractive int
	outcome        dataviewer.RunOutcome
}

func newStubMonitor(outcome dataviewer.RunOutcome) *stubMonitor {
	log, hook := logrustest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return &stubMonitor{log: log, hook: hook, outcome: outcome}
}

func (s *stubMonitor) Name() string { return "stub" }
func (s *stubMonitor) Type() string { return "stub" }

func (s *stubMonitor) RunInteractive(ctx context.Context) dataviewer.RunOutcome {
	s.interactive++
	return s.outcome
}

func (s *stubMonitor) RunNonInteractive(ctx context.Context) dataviewer.RunOutcome {
	s.nonInteractive++
	return s.outcome
}

func (s *stubMonitor) Logger() *logrus.Logger { return s.log }

func withStub(t *testing.T, mon *stubMonitor, buildErr error) {
	t.Helper()
	prev := buildMonitor
	buildMonitor = func(path string) (dataviewer.Monitor, error) {
		if buildErr != nil {
			return nil, buildErr
		}
		return mon, nil
	}
	t.Cleanup(func() { buildMonitor = prev })
}

func TestRunDispatchesInteractive(t *testing.T) {
	mon := newStubMonitor(dataviewer.Completed())
	withStub(t, mon, nil)
	nonInteractiveFlag = false

	require.NoError(t, run("config.ini"))
	assert.Equal(t, 1, mon.interactive)
	assert.Equal(t, 0, mon.nonInteractive)
}

func TestRunDispatchesNonInteractive(t *testing.T) {
	mon := newStubMonitor(dataviewer.Completed())
	withStub(t, mon, nil)
	nonInteractiveFlag = true
	t.Cleanup(func() { nonInteractiveFlag = false })

	require.NoError(t, run("config.ini"))
	assert.Equal(t, 0, mon.interactive)
	assert.Equal(t, 1, mon.nonInteractive)
}

func TestRunPropagatesFactoryError(t *testing.T) {
	mon := newStubMonitor(dataviewer.Completed())
	buildErr := fmt.Errorf("no such file")
	withStub(t, mon, buildErr)

	err := run("missing.ini")
	require.ErrorIs(t, err, buildErr)
	assert.Equal(t, 0, mon.interactive)
	assert.Equal(t, 0, mon.nonInteractive)
}

func TestRunInterruptedLogsDebugAndExitsClean(t *testing.T) {
	mon := newStubMonitor(dataviewer.Interrupted())
	withStub(t, mon, nil)

	require.NoError(t, run("config.ini"))

	require.Len(t, mon.hook.Entries, 1)
	assert.Equal(t, logrus.DebugLevel, mon.hook.LastEntry().Level)
	assert.Contains(t, mon.hook.LastEntry().Message, "interrupt")
}

func TestRunFailedPropagatesError(t *testing.T) {
	runErr := fmt.Errorf("source exploded")
	mon := newStubMonitor(dataviewer.Failed(runErr))
	withStub(t, mon, nil)

	err := run("config.ini")
	require.ErrorIs(t, err, runErr)
}

func TestRootCommandParsesNonInteractiveFlag(t *testing.T) {
	for _, form := range []string{"-n", "--non-interactive"} {
		t.Run(form, func(t *testing.T) {
			mon := newStubMonitor(dataviewer.Completed())
			withStub(t, mon, nil)
			t.Cleanup(func() { nonInteractiveFlag = false })

			rootCmd.SetArgs([]string{form, "config.ini"})
			require.NoError(t, rootCmd.Execute())
			assert.Equal(t, 0, mon.interactive)
			assert.Equal(t, 1, mon.nonInteractive)
		})
	}
}

func TestRootCommandDefaultsToInteractive(t *testing.T) {
	mon := newStubMonitor(dataviewer.Completed())
	withStub(t, mon, nil)
	nonInteractiveFlag = false

	rootCmd.SetArgs([]string{"config.ini"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 1, mon.interactive)
	assert.Equal(t, 0, mon.nonInteractive)
}

func TestRootCommandRequiresConfigArg(t *testing.T) {
	mon := newStubMonitor(dataviewer.Completed())
	withStub(t, mon, nil)

	rootCmd.SetArgs([]string{})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 0, mon.interactive)
	assert.Equal(t, 0, mon.nonInteractive)
}
