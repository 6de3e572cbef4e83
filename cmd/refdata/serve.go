package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/logging"
	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/metrics"
	"github.com/JonMunkholm/refdata/internal/model"
	"github.com/JonMunkholm/refdata/internal/web"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the reference data graph and matrix indexes over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithRun(ctx, logging.NewRunID())

			collector := metrics.New()
			snap, err := a.snapshot(ctx, collector)
			if err != nil {
				return err
			}

			server := web.NewServer(snap, collector, a.cfg.Server)
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}

// snapshot reads the graph and assembles the matrix the way a build does,
// without writing any files.
func (a *app) snapshot(ctx context.Context, collector *metrics.Collector) (*web.Snapshot, error) {
	start := time.Now()
	report := core.NewReport(logging.FromContext(ctx))

	data, err := a.read(report, model.SubsetAll)
	if err != nil {
		return nil, err
	}
	order, err := matrix.ParseIndexOrder(a.cfg.Build.MatrixIndexOrder)
	if err != nil {
		return nil, err
	}
	export, err := matrix.Assemble(data, matrix.Options{Order: order, Report: report})
	if err != nil {
		return nil, err
	}
	data.StripImpactFactors()

	collector.ObserveRun(start, report, data, export)

	return &web.Snapshot{
		Version: a.cfg.Build.Version,
		BuiltAt: time.Now().UTC(),
		Data:    data,
		Export:  export,
		Report:  report,
	}, nil
}
