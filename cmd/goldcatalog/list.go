package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"goldcatalog/internal/catalog"
	"goldcatalog/internal/model"
	"goldcatalog/internal/pricing"
)

type listFlags struct {
	rate          float64
	live          bool
	minPrice      float64
	maxPrice      float64
	minPopularity float64
	maxPopularity float64
	sortBy        string
	sortOrder     string
}

func listCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the priced catalog, filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup()
			if err != nil {
				return err
			}
			defer d.close()

			display := pricing.DisplayCriteria{}
			if cmd.Flags().Changed("min-price") {
				display.MinPrice = &f.minPrice
			}
			if cmd.Flags().Changed("max-price") {
				display.MaxPrice = &f.maxPrice
			}
			if cmd.Flags().Changed("min-popularity") {
				display.MinPopularity = &f.minPopularity
			}
			if cmd.Flags().Changed("max-popularity") {
				display.MaxPopularity = &f.maxPopularity
			}
			if err := display.Validate(); err != nil {
				return err
			}
			sortSpec, err := pricing.ParseSort(f.sortBy, f.sortOrder)
			if err != nil {
				return err
			}

			rate := d.store.Fallback()
			switch {
			case cmd.Flags().Changed("rate"):
				if f.rate <= 0 {
					return fmt.Errorf("--rate must be positive")
				}
				rate = f.rate
			case f.live:
				// A failed fetch leaves the fallback in place.
				if q, err := d.store.Refresh(cmd.Context()); err == nil {
					rate = q.PricePerGram
				}
			}

			items := catalog.LoadOrEmpty(d.cfg.CatalogPath, d.logger)
			result := pricing.Apply(pricing.PriceAll(items, rate), display.Normalize(), sortSpec)
			return printItems(os.Stdout, result, rate)
		},
	}

	cmd.Flags().Float64Var(&f.rate, "rate", 0, "USD per gram to price with (default: FALLBACK_GOLD_PRICE)")
	cmd.Flags().BoolVar(&f.live, "live", false, "price with the live quote, falling back on failure")
	cmd.Flags().Float64Var(&f.minPrice, "min-price", 0, "minimum price in USD")
	cmd.Flags().Float64Var(&f.maxPrice, "max-price", 0, "maximum price in USD")
	cmd.Flags().Float64Var(&f.minPopularity, "min-popularity", 0, "minimum popularity, 0-5")
	cmd.Flags().Float64Var(&f.maxPopularity, "max-popularity", 0, "maximum popularity, 0-5")
	cmd.Flags().StringVar(&f.sortBy, "sort-by", "", "price or popularity")
	cmd.Flags().StringVar(&f.sortOrder, "sort-order", "asc", "asc or desc")
	return cmd
}

func printItems(w io.Writer, items []model.PricedItem, rate float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "rate: $%.2f/g\n", rate)
	fmt.Fprintln(tw, "ID\tNAME\tPOPULARITY\tWEIGHT (g)\tPRICE (USD)")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.1f/5\t%.2f\t%.2f\n",
			p.ID, p.Name, p.PopularityScore*pricing.DisplayPopularityMax, p.Weight, pricing.RoundUSD(p.Price))
	}
	return tw.Flush()
}
