package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/expedientes/internal/export"
	"github.com/joseph-ayodele/expedientes/internal/metrics"
	"github.com/joseph-ayodele/expedientes/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC server and the metrics endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer a.close(d)

			svc := server.NewExpedienteService(a.logger,
				server.WithProcessor(d.processor),
				server.WithExporter(export.NewService(d.cases, d.jobs, a.logger)),
			)
			grpcServer, hs := server.NewGRPCServer(svc, a.logger, d.metrics)

			lis, err := net.Listen("tcp", a.cfg.Server.GRPCAddr)
			if err != nil {
				a.logger.Error("failed to listen on address", "addr", a.cfg.Server.GRPCAddr, "error", err)
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.logger.Info("expedientes listening", "addr", lis.Addr().String())
				return grpcServer.Serve(lis)
			})

			var metricsSrv *http.Server
			if a.cfg.Server.MetricsAddr != "" {
				metricsSrv = newMetricsServer(a.cfg.Server.MetricsAddr, d.metrics)
				g.Go(func() error {
					a.logger.Info("metrics listening", "addr", metricsSrv.Addr)
					if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
			}

			g.Go(func() error {
				<-gctx.Done()
				a.logger.Info("shutting down...")
				hs.Shutdown()
				grpcServer.GracefulStop()
				if metricsSrv != nil {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = metricsSrv.Shutdown(shutdownCtx)
				}
				return nil
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("server stopped with error", "error", err)
				return err
			}
			a.logger.Info("stopped")
			return nil
		},
	}
}

func newMetricsServer(addr string, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// serveMetrics starts the metrics endpoint in the background when configured
// and returns its stop function.
func (a *app) serveMetrics(m *metrics.Metrics) func() {
	if a.cfg.Server.MetricsAddr == "" {
		return func() {}
	}
	srv := newMetricsServer(a.cfg.Server.MetricsAddr, m)
	go func() {
		a.logger.Info("metrics listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
