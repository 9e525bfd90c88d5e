package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solivagant/quote-api/internal/config"
	"github.com/solivagant/quote-api/internal/service/pricing"
)

// cli carries the global flags and the state built in PersistentPreRunE.
type cli struct {
	cfgFile      string
	outputFormat string

	service *pricing.Service
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Inspect the price table and compute quotes offline",
		Long: `quotectl loads the same configuration as the quote API and prices
requests locally, without a running server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(c.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			table, err := cfg.Pricing.Table()
			if err != nil {
				return fmt.Errorf("failed to build price table: %w", err)
			}
			c.service = pricing.NewService(table)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	root.PersistentFlags().StringVarP(&c.outputFormat, "output", "o", "table", "output format: table, json, yaml")

	root.AddCommand(
		c.newTableCmd(),
		c.newQuoteCmd(),
	)
	return root
}
