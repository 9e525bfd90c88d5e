package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/solivagant/quote-api/internal/model"
)

type RuleKind string

const (
	// RuleKindFixed charges the same price for every duration tier.
	RuleKindFixed RuleKind = "fixed"

	// RuleKindTimeBased charges a price looked up by duration tier.
	RuleKindTimeBased RuleKind = "time_based"
)

// Rule is the price of a single service. Exactly one of Fixed or Tiers is
// meaningful, selected by Kind.
type Rule struct {
	ID   string
	Kind RuleKind

	// Fixed is the per-session price when Kind is RuleKindFixed.
	Fixed decimal.Decimal

	// Tiers holds one price per duration tier when Kind is RuleKindTimeBased.
	Tiers map[model.DurationTier]decimal.Decimal
}

func FixedRule(id string, price decimal.Decimal) Rule {
	return Rule{ID: id, Kind: RuleKindFixed, Fixed: price}
}

func TimeBasedRule(id string, tiers map[model.DurationTier]decimal.Decimal) Rule {
	return Rule{ID: id, Kind: RuleKindTimeBased, Tiers: tiers}
}

// Price returns the per-session charge of the rule for tier.
func (r Rule) Price(tier model.DurationTier) decimal.Decimal {
	if r.Kind == RuleKindFixed {
		return r.Fixed
	}
	return r.Tiers[tier]
}

func (r Rule) clone() Rule {
	if r.Tiers == nil {
		return r
	}
	tiers := make(map[model.DurationTier]decimal.Decimal, len(r.Tiers))
	for k, v := range r.Tiers {
		tiers[k] = v
	}
	r.Tiers = tiers
	return r
}

func (r Rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule has empty id")
	}

	switch r.Kind {
	case RuleKindFixed:
		if len(r.Tiers) > 0 {
			return fmt.Errorf("fixed rule %q must not define tier prices", r.ID)
		}
		if r.Fixed.IsNegative() {
			return fmt.Errorf("rule %q has negative price %s", r.ID, r.Fixed)
		}
	case RuleKindTimeBased:
		if !r.Fixed.IsZero() {
			return fmt.Errorf("time based rule %q must not define a fixed price", r.ID)
		}
		for tier := range r.Tiers {
			if !tier.Valid() {
				return fmt.Errorf("rule %q prices unknown tier %q", r.ID, tier)
			}
		}
		for _, tier := range model.DurationTiers() {
			price, ok := r.Tiers[tier]
			if !ok {
				return fmt.Errorf("rule %q has no price for tier %q", r.ID, tier)
			}
			if price.IsNegative() {
				return fmt.Errorf("rule %q has negative price %s for tier %q", r.ID, price, tier)
			}
		}
	default:
		return fmt.Errorf("rule %q has unknown kind %q", r.ID, r.Kind)
	}

	return nil
}

type ruleJSON struct {
	ID    string             `json:"id"`
	Kind  RuleKind           `json:"kind"`
	Price *float64           `json:"price,omitempty"`
	Tiers map[string]float64 `json:"tiers,omitempty"`
}

func (r Rule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{ID: r.ID, Kind: r.Kind}
	if r.Kind == RuleKindFixed {
		price := r.Fixed.InexactFloat64()
		out.Price = &price
	} else {
		out.Tiers = make(map[string]float64, len(r.Tiers))
		for tier, price := range r.Tiers {
			out.Tiers[tier.String()] = price.InexactFloat64()
		}
	}
	return json.Marshal(out)
}
