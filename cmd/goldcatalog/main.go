package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goldcatalog/internal/config"
	"goldcatalog/internal/logging"
	"goldcatalog/internal/quote"
)

// go run ./cmd/goldcatalog serve
// go run ./cmd/goldcatalog quote
// go run ./cmd/goldcatalog list --min-popularity=2.5 --sort-by=price --sort-order=desc
func main() {
	root := &cobra.Command{
		Use:           "goldcatalog",
		Short:         "Gold jewelry catalog priced from the live 24k gold rate",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), quoteCmd(), listCmd(), refreshCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *quote.Store
	snapshot *quote.RedisSnapshot
}

func setup() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, logger: logger}

	var opts []quote.Option
	if cfg.RedisURL != "" {
		d.snapshot = quote.NewRedisSnapshot(cfg.RedisURL)
		opts = append(opts, quote.WithSnapshot(d.snapshot))
	}
	client := quote.NewClient(cfg.MetalPriceAPIKey, cfg.MetalPriceAPIURL)
	d.store = quote.NewStore(client, cfg.FallbackGoldPrice, logger, opts...)
	return d, nil
}

func (d *deps) close() {
	if d.snapshot != nil {
		_ = d.snapshot.Close()
	}
	_ = d.logger.Sync()
}
