package mainctx

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var (
	sigCh        = make(chan os.Signal, 1)
	sigAwareCtx  context.Context
	forceKillCtx context.Context
)

func init() {
	var cancel, cancelForce context.CancelFunc
	sigAwareCtx, cancel = context.WithCancel(context.Background())
	forceKillCtx, cancelForce = context.WithCancel(context.Background())
	signal.Notify(sigCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		sigCount := 0
		for sig := range sigCh {
			sigCount++
			if sigCount == 1 {
				slog.Debug("received signal, shutting down gracefully... (interrupt 2 more times to force quit)", "signal", sig)
				cancel()
			} else if sigCount == 2 {
				slog.Warn("received signal again (interrupt 1 more time to force quit)", "signal", sig)
			} else if sigCount >= 3 {
				slog.Warn("force quitting...")
				cancelForce()
			}
		}
	}()
}

// Get returns a context that is cancelled by the first
// interruption/termination signal received by the process. The monitor
// run loop drains on it and reports an interrupted outcome.
func Get() context.Context {
	return sigAwareCtx
}

// GetForceKillCtx returns a context that is cancelled on the third
// signal, for callers that want to abandon graceful shutdown.
func GetForceKillCtx() context.Context {
	return forceKillCtx
}
