package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/solivagant/quote-api/internal/model"
)

// Table maps service ids to their rules. It is read-only once built and
// safe for concurrent use.
type Table struct {
	rules map[string]Rule
}

// NewTable validates rules and builds an immutable table from them.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("invalid price rule: %w", err)
		}
		if _, dup := t.rules[r.ID]; dup {
			return nil, fmt.Errorf("duplicate price rule %q", r.ID)
		}
		t.rules[r.ID] = r.clone()
	}
	return t, nil
}

// Lookup returns a copy of the rule for id.
func (t *Table) Lookup(id string) (Rule, bool) {
	r, ok := t.rules[id]
	if !ok {
		return Rule{}, false
	}
	return r.clone(), true
}

func (t *Table) price(id string, tier model.DurationTier) (decimal.Decimal, bool) {
	r, ok := t.rules[id]
	if !ok {
		return decimal.Zero, false
	}
	return r.Price(tier), true
}

func (t *Table) Len() int {
	return len(t.rules)
}

// Rules returns copies of every rule sorted by id.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		out = append(out, r.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
