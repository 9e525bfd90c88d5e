package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solivagant/quote-api/internal/model"
	"github.com/solivagant/quote-api/internal/service/pricing"
)

// priceRow has the shape of a pricing.services entry in the config file,
// so YAML output can be pasted back as a custom table.
type priceRow struct {
	ID    string            `json:"id" yaml:"id"`
	Price string            `json:"price,omitempty" yaml:"price,omitempty"`
	Tiers map[string]string `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

func newPriceRow(r pricing.Rule) priceRow {
	row := priceRow{ID: r.ID}
	if r.Kind == pricing.RuleKindFixed {
		row.Price = r.Fixed.StringFixed(2)
		return row
	}
	row.Tiers = make(map[string]string, len(r.Tiers))
	for tier, price := range r.Tiers {
		row.Tiers[tier.String()] = price.StringFixed(2)
	}
	return row
}

func (c *cli) newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Show the per-session price of every service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := c.service.Table().Rules()

			rows := make([]priceRow, 0, len(rules))
			for _, r := range rules {
				rows = append(rows, newPriceRow(r))
			}

			return render(cmd.OutOrStdout(), c.outputFormat, rows, func(w io.Writer) {
				tiers := model.DurationTiers()

				header := []string{"SERVICE", "KIND"}
				for _, t := range tiers {
					header = append(header, t.String())
				}
				fmt.Fprintln(w, strings.Join(header, "\t"))

				for _, r := range rules {
					cols := []string{r.ID, string(r.Kind)}
					for _, t := range tiers {
						cols = append(cols, r.Price(t).StringFixed(2))
					}
					fmt.Fprintln(w, strings.Join(cols, "\t"))
				}
			})
		},
	}
}
