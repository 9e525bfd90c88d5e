package pricing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solivagant/quote-api/internal/model"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Compute(t *testing.T) {
	svc := NewService(DefaultTable())

	tests := []struct {
		name       string
		services   []string
		tier       model.DurationTier
		quantity   int
		total      string
		prepayment string
	}{
		{
			name:       "fixed plus time based",
			services:   []string{"fixed_service1", "time_service1"},
			tier:       model.Tier30Plus5,
			quantity:   2,
			total:      "12.00",
			prepayment: "6.00",
		},
		{
			name:       "duplicates are each charged",
			services:   []string{"fixed_service1", "fixed_service1"},
			tier:       model.Tier15,
			quantity:   1,
			total:      "4.00",
			prepayment: "2.00",
		},
		{
			name:       "fixed price ignores tier",
			services:   []string{"fixed_service3"},
			tier:       model.Tier120Plus30,
			quantity:   3,
			total:      "9.00",
			prepayment: "4.50",
		},
		{
			name:       "fractional tier price",
			services:   []string{"time_service8", "night_subsidy"},
			tier:       model.Tier60Plus15,
			quantity:   1,
			total:      "6.50",
			prepayment: "3.25",
		},
		{
			name:       "prepayment rounds half away from zero",
			services:   []string{"fixed_service5"},
			tier:       model.Tier15,
			quantity:   1,
			total:      "0.01",
			prepayment: "0.01",
		},
		{
			name:       "no rounding drift across many cents",
			services:   []string{"fixed_service5", "fixed_service5", "fixed_service5"},
			tier:       model.Tier15,
			quantity:   7,
			total:      "0.21",
			prepayment: "0.11",
		},
		{
			name:       "empty selection",
			services:   []string{},
			tier:       model.Tier15,
			quantity:   1,
			total:      "0",
			prepayment: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Compute(tt.services, tt.tier, tt.quantity)
			require.NoError(t, err)
			assert.True(t, dec(tt.total).Equal(got.Total), "total: want %s, got %s", tt.total, got.Total)
			assert.True(t, dec(tt.prepayment).Equal(got.Prepayment), "prepayment: want %s, got %s", tt.prepayment, got.Prepayment)
		})
	}
}

func TestService_Compute_Errors(t *testing.T) {
	svc := NewService(DefaultTable())

	tests := []struct {
		name     string
		services []string
		tier     model.DurationTier
		quantity int
		want     error
	}{
		{"unknown tier", []string{"fixed_service1"}, "45", 1, apperrors.InvalidTier},
		{"empty tier", []string{"fixed_service1"}, "", 1, apperrors.InvalidTier},
		{"zero quantity", []string{"fixed_service1"}, model.Tier15, 0, apperrors.InvalidQuantity},
		{"negative quantity", []string{"fixed_service1"}, model.Tier15, -2, apperrors.InvalidQuantity},
		{"unknown service", []string{"fixed_service1", "ghost"}, model.Tier15, 1, apperrors.UnknownService},
		{"tier checked before quantity", []string{"ghost"}, "bad", 0, apperrors.InvalidTier},
		{"quantity checked before services", []string{"ghost"}, model.Tier15, 0, apperrors.InvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Compute(tt.services, tt.tier, tt.quantity)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestService_Compute_UnknownServiceNamesID(t *testing.T) {
	svc := NewService(DefaultTable())

	_, err := svc.Compute([]string{"time_service1", "massage_deluxe"}, model.Tier15, 1)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "massage_deluxe")
}

func TestService_Compute_Idempotent(t *testing.T) {
	svc := NewService(DefaultTable())
	services := []string{"time_service7", "fixed_service2", "night_subsidy"}

	first, err := svc.Compute(services, model.Tier120Plus30, 4)
	require.NoError(t, err)
	second, err := svc.Compute(services, model.Tier120Plus30, 4)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Prepayment.Equal(second.Prepayment))
}

func TestService_Compute_PrepaymentIsHalfOfTotal(t *testing.T) {
	svc := NewService(DefaultTable())
	half := dec("0.5")

	for _, tier := range model.DurationTiers() {
		for _, rule := range svc.Table().Rules() {
			for quantity := 1; quantity <= 5; quantity++ {
				got, err := svc.Compute([]string{rule.ID, "fixed_service5"}, tier, quantity)
				require.NoError(t, err)
				assert.True(t, got.Total.Mul(half).Round(2).Equal(got.Prepayment),
					"%s/%s x%d: total %s prepayment %s", rule.ID, tier, quantity, got.Total, got.Prepayment)
			}
		}
	}
}

func TestService_Quote(t *testing.T) {
	svc := NewService(DefaultTable())

	got, err := svc.Quote(model.QuoteRequest{
		SelectedServices: []string{"fixed_service1", "time_service1"},
		SelectedTime:     "30+5",
		Quantity:         model.Quantity("2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12.00", got.Total.StringFixed(2))
	assert.Equal(t, "6.00", got.Prepayment.StringFixed(2))

	_, err = svc.Quote(model.QuoteRequest{
		SelectedServices: []string{"fixed_service1"},
		SelectedTime:     "30",
		Quantity:         model.Quantity("2"),
	})
	assert.True(t, errors.Is(err, apperrors.InvalidTier))

	_, err = svc.Quote(model.QuoteRequest{
		SelectedServices: []string{"fixed_service1"},
		SelectedTime:     "15",
		Quantity:         model.Quantity("1.5"),
	})
	assert.True(t, errors.Is(err, apperrors.InvalidQuantity))
}

func TestParseQuantity(t *testing.T) {
	valid := map[string]int{"1": 1, "3": 3, "3.0": 3, "1e2": 100, "2147483647": 2147483647}
	for in, want := range valid {
		got, err := ParseQuantity(json.Number(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "0", "-1", "2.5", "0.999", "abc", "2147483648", "1e40"} {
		_, err := ParseQuantity(json.Number(in))
		assert.True(t, errors.Is(err, apperrors.InvalidQuantity), "input %q", in)
	}
}
