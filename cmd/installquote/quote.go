package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/config"
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/estimate"
	"github.com/vbonduro/installquote/internal/pricing"
)

type quoteOptions struct {
	file      string
	ratesFile string
	tier      int
	period    string
}

func newQuoteCmd() *cobra.Command {
	var opts quoteOptions
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the estimate breakdown for a location JSON file",
		RunE: func(c *cobra.Command, args []string) error {
			return runQuote(c.Context(), c.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to a location JSON document")
	cmd.Flags().StringVar(&opts.ratesFile, "rates", os.Getenv("RATES_FILE"), "Path to a rate table (JSON or YAML)")
	cmd.Flags().IntVar(&opts.tier, "tier", 0, "Support tier index")
	cmd.Flags().StringVar(&opts.period, "period", string(domain.PeriodMonthly), "Support period: monthly or annual")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runQuote(ctx context.Context, out io.Writer, opts quoteOptions) error {
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read location: %w", err)
	}
	var loc domain.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return fmt.Errorf("failed to parse location: %w", err)
	}
	rates, err := config.LoadRates(opts.ratesFile)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	authority := estimate.NewEngineAuthority(pricing.NewEngine(rates, catalog.Default()))
	b, _, err := estimate.Compute(ctx, authority, estimate.Input{
		Location: loc,
		Support:  estimate.Support{Tier: opts.tier, Period: domain.SupportPeriod(opts.period)},
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}
