package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/solivagant/quote-api/internal/model"
)

func tiered(p15, p30, p60, p120 string) map[model.DurationTier]decimal.Decimal {
	return map[model.DurationTier]decimal.Decimal{
		model.Tier15:        decimal.RequireFromString(p15),
		model.Tier30Plus5:   decimal.RequireFromString(p30),
		model.Tier60Plus15:  decimal.RequireFromString(p60),
		model.Tier120Plus30: decimal.RequireFromString(p120),
	}
}

// DefaultRules is the catalogue served when the configuration does not
// override it.
func DefaultRules() []Rule {
	return []Rule{
		FixedRule("fixed_service1", decimal.RequireFromString("2.00")),
		FixedRule("fixed_service2", decimal.RequireFromString("2.00")),
		FixedRule("fixed_service3", decimal.RequireFromString("3.00")),
		FixedRule("fixed_service4", decimal.RequireFromString("2.00")),
		FixedRule("fixed_service5", decimal.RequireFromString("0.01")),
		TimeBasedRule("night_subsidy", tiered("0.50", "1.00", "2.00", "4.00")),
		TimeBasedRule("time_service1", tiered("2.00", "4.00", "6.00", "8.00")),
		TimeBasedRule("time_service2", tiered("2.00", "4.00", "6.00", "8.00")),
		TimeBasedRule("time_service3", tiered("2.00", "4.00", "6.00", "8.00")),
		TimeBasedRule("time_service4", tiered("2.00", "4.00", "6.00", "8.00")),
		TimeBasedRule("time_service5", tiered("2.00", "4.00", "6.00", "8.00")),
		TimeBasedRule("time_service6", tiered("2.00", "4.00", "6.00", "8.00")),
		TimeBasedRule("time_service7", tiered("1.00", "3.00", "5.00", "7.00")),
		TimeBasedRule("time_service8", tiered("3.00", "3.00", "4.50", "7.50")),
	}
}

// DefaultTable builds a table from DefaultRules.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRules()...)
	if err != nil {
		panic(err)
	}
	return t
}
