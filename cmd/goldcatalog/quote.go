package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Fetch the live 24k gold price once and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup()
			if err != nil {
				return err
			}
			defer d.close()

			ctx := cmd.Context()
			if d.cfg.QuoteTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d.cfg.QuoteTimeout)
				defer cancel()
			}

			q, err := d.store.Refresh(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(q)
		},
	}
}

func refreshCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Keep the shared redis quote snapshot fresh without serving HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup()
			if err != nil {
				return err
			}
			defer d.close()

			if d.snapshot == nil {
				d.logger.Warn("REDIS_URL not set, refreshed quotes stay in this process")
			}

			interval := d.cfg.QuoteRefreshInterval
			if interval <= 0 {
				interval = 15 * time.Minute
			}
			if once {
				_, err := d.store.Refresh(cmd.Context())
				return err
			}
			return d.store.Run(cmd.Context(), interval, d.cfg.QuoteTimeout)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "refresh a single time and exit")
	return cmd
}
