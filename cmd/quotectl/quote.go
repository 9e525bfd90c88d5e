package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/solivagant/quote-api/internal/model"
)

type quoteOutput struct {
	Total float64 `json:"total" yaml:"total"`
	PM    float64 `json:"pm" yaml:"pm"`
}

func (c *cli) newQuoteCmd() *cobra.Command {
	var (
		services []string
		tier     string
		quantity string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the total and prepayment for a selection",
		Example: `  quotectl quote -s fixed_service1 -s time_service1 -t 30+5 -n 2
  quotectl quote --service night_subsidy --tier 120+30 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.service.Quote(model.QuoteRequest{
				SelectedServices: services,
				SelectedTime:     tier,
				Quantity:         model.Quantity(quantity),
			})
			if err != nil {
				return err
			}

			out := quoteOutput{
				Total: result.Total.InexactFloat64(),
				PM:    result.Prepayment.InexactFloat64(),
			}
			return render(cmd.OutOrStdout(), c.outputFormat, out, func(w io.Writer) {
				fmt.Fprintln(w, "TOTAL\tPREPAYMENT")
				fmt.Fprintf(w, "%s\t%s\n", result.Total.StringFixed(2), result.Prepayment.StringFixed(2))
			})
		},
	}

	cmd.Flags().StringSliceVarP(&services, "service", "s", nil, "service id, repeatable or comma separated")
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "duration tier: 15, 30+5, 60+15, 120+30")
	cmd.Flags().StringVarP(&quantity, "quantity", "n", "1", "number of sessions")
	_ = cmd.MarkFlagRequired("tier")

	return cmd
}
