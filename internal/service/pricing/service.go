package pricing

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	"github.com/solivagant/quote-api/internal/model"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

const roundPlaces = 2

var (
	prepaymentRate = decimal.RequireFromString("0.5")
	maxQuantity    = decimal.NewFromInt(math.MaxInt32)
)

type PricingServicer interface {
	Compute(services []string, tier model.DurationTier, quantity int) (model.QuoteResult, error)
	Quote(req model.QuoteRequest) (model.QuoteResult, error)
	Table() *Table
}

// Service is the pricing engine. It holds no mutable state; every call is
// a pure function of its arguments and the table.
type Service struct {
	table *Table
}

func NewService(table *Table) *Service {
	return &Service{table: table}
}

func (s *Service) Table() *Table {
	return s.table
}

// Compute prices services for a single session of tier, multiplies by
// quantity and derives the prepayment. Duplicate ids are charged once per
// occurrence. Rounding happens only on the final total and prepayment.
func (s *Service) Compute(services []string, tier model.DurationTier, quantity int) (model.QuoteResult, error) {
	if !tier.Valid() {
		return model.QuoteResult{}, apperrors.NewInvalidTier(tier.String())
	}
	if quantity <= 0 {
		return model.QuoteResult{}, apperrors.NewInvalidQuantity(decimal.NewFromInt(int64(quantity)).String())
	}

	subtotal := decimal.Zero
	for _, id := range services {
		price, ok := s.table.price(id, tier)
		if !ok {
			return model.QuoteResult{}, apperrors.NewUnknownService(id)
		}
		subtotal = subtotal.Add(price)
	}

	total := subtotal.Mul(decimal.NewFromInt(int64(quantity))).Round(roundPlaces)
	return model.QuoteResult{
		Total:      total,
		Prepayment: total.Mul(prepaymentRate).Round(roundPlaces),
	}, nil
}

// Quote validates the raw request fields in the same order as Compute and
// then computes the quote.
func (s *Service) Quote(req model.QuoteRequest) (model.QuoteResult, error) {
	tier, err := model.ParseDurationTier(req.SelectedTime)
	if err != nil {
		return model.QuoteResult{}, err
	}

	quantity, err := ParseQuantity(req.Quantity.Number())
	if err != nil {
		return model.QuoteResult{}, err
	}

	return s.Compute(req.SelectedServices, tier, quantity)
}

// ParseQuantity accepts any JSON number with an integral value in
// [1, MaxInt32], so 3 and 3.0 are both valid while 2.5, 0 and -1 are not.
func ParseQuantity(n json.Number) (int, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, apperrors.NewInvalidQuantity(n.String())
	}
	if !d.IsInteger() || d.Sign() <= 0 || d.GreaterThan(maxQuantity) {
		return 0, apperrors.NewInvalidQuantity(n.String())
	}
	return int(d.IntPart()), nil
}
