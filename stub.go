package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/luki/airguard/internal/config"
	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/stubapi"
)

const (
	stubCapacity    = 1000
	shutdownTimeout = 5 * time.Second
)

// runStub serves an in-memory copy of the sensor API with simulated
// readings until interrupted. An optional argument overrides the port.
func runStub(cfg config.Config, args []string) error {
	port := cfg.Stub.Port
	if len(args) > 0 {
		port = args[0]
	}

	// the stub has no TUI, log to stdout
	log := logger.Get(cfg.Log.Level, "")
	defer log.Sync()

	store := stubapi.NewStore(stubCapacity)
	sim := stubapi.NewSimulator(store, time.Now().UnixNano())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sim.Run(ctx, cfg.Stub.Interval)

	srv := &stubapi.Server{}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(port, stubapi.NewHandler(store, log).InitRoutes())
	}()

	fmt.Printf("Stub API on port %s, base path %s (simulating every %s)\n", port, stubapi.BasePath, cfg.Stub.Interval)
	fmt.Println("Press Ctrl+C to stop")
	log.Infow("stub_start", "port", port, "interval", cfg.Stub.Interval.String())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("stub_failed", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("stub_shutdown_failed", "error", err)
	}
	log.Infow("stub_stopped")
	return nil
}
