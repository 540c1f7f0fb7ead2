// Package signal provides graceful shutdown handling for long discovery
// runs. The first interrupt cancels the run context so the current job can
// finish and be recorded; a second interrupt exits immediately.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// WithInterrupt returns a context cancelled on SIGINT or SIGTERM. The
// returned cancel function must be called to release the signal watcher.
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("stopping after the current job, interrupt again to force exit")
			cancel()
		case <-ctx.Done():
			return
		}
		select {
		case <-sigCh:
			log.Warn().Msg("forced exit")
			os.Exit(130)
		case <-time.After(forceExitWindow):
		}
	}()

	return ctx, cancel
}

// forceExitWindow bounds how long the second-interrupt watcher lingers
// after the run context is already cancelled.
const forceExitWindow = 2 * time.Minute

// NotifyContext is WithInterrupt over a background context.
func NotifyContext() (context.Context, context.CancelFunc) {
	return WithInterrupt(context.Background())
}
