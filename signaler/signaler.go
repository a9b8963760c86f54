package signaler

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/infinitefield/hypersdk/log"
)

// WaitForInterrupt returns a channel that receives SIGINT and SIGTERM
func WaitForInterrupt() chan os.Signal {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	return sigC
}

// WithInterrupt returns a context cancelled on the first SIGINT or SIGTERM,
// or when the returned cancel func is called
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigC := WaitForInterrupt()
	go func() {
		defer signal.Stop(sigC)
		select {
		case sig := <-sigC:
			log.Infof(log.Global, "Captured %v, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
