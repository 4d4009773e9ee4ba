package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"goldcatalog/internal/api"
	"goldcatalog/internal/catalog"
	"goldcatalog/internal/observability"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve /products and /gold-price over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup()
			if err != nil {
				return err
			}
			defer d.close()
			return serve(cmd.Context(), d)
		},
	}
}

func serve(ctx context.Context, d *deps) error {
	cfg, logger := d.cfg, d.logger

	items := catalog.LoadOrEmpty(cfg.CatalogPath, logger)
	logger.Info("catalog loaded", zap.String("path", cfg.CatalogPath), zap.Int("items", len(items)))

	d.store.Seed(ctx)

	handler := api.NewHandler(items, d.store, logger)
	// With a refresh schedule the cached quote is authoritative for /gold-price.
	handler.FetchOnRequest = cfg.QuoteRefreshInterval <= 0
	handler.QuoteTimeout = cfg.QuoteTimeout

	apiServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := observability.NewServer(cfg.MetricsPort)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api listening", zap.String("addr", apiServer.Addr))
		return listen(apiServer)
	})
	g.Go(func() error {
		logger.Info("metrics listening", zap.String("addr", metricsServer.Addr))
		return listen(metricsServer)
	})
	g.Go(func() error {
		// A missing API key stops the schedule. /products keeps serving at the
		// fallback rate, so it does not take the server down.
		_ = d.store.Run(gctx, cfg.QuoteRefreshInterval, cfg.QuoteTimeout)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
