package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/layertiming/metrics"
)

// ServeCmd exposes the accumulated counters on a Prometheus scrape endpoint.
// The shared file is re-read on every scrape, so merges from any process on
// the host show up without restarting the server.
type ServeCmd struct {
	Addr string `help:"Listen address for the metrics endpoint" default:":9090"`
}

func (s *ServeCmd) Run(g *Global) error {
	reg := prom.NewRegistry()
	if err := reg.Register(metrics.NewCounterCollector(g.Manager)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving layer timing metrics", "addr", s.Addr, "counter", g.Manager.CounterPath())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
