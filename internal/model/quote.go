package model

import (
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"

	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

// DurationTier is a session length plus buffer, in minutes, used as a
// price lookup key. The labels are opaque: "30+5" is never evaluated.
type DurationTier string

const (
	Tier15        DurationTier = "15"
	Tier30Plus5   DurationTier = "30+5"
	Tier60Plus15  DurationTier = "60+15"
	Tier120Plus30 DurationTier = "120+30"
)

var durationTiers = []DurationTier{Tier15, Tier30Plus5, Tier60Plus15, Tier120Plus30}

// DurationTiers returns every recognized tier in ascending session length.
func DurationTiers() []DurationTier {
	out := make([]DurationTier, len(durationTiers))
	copy(out, durationTiers)
	return out
}

func (t DurationTier) Valid() bool {
	for _, v := range durationTiers {
		if t == v {
			return true
		}
	}
	return false
}

func (t DurationTier) String() string {
	return string(t)
}

// ParseDurationTier converts an untrusted label into a DurationTier.
func ParseDurationTier(s string) (DurationTier, error) {
	t := DurationTier(s)
	if !t.Valid() {
		return "", apperrors.NewInvalidTier(s)
	}
	return t, nil
}

// QuoteRequest is the body of POST /api/difprice.
type QuoteRequest struct {
	SelectedServices []string    `json:"selectedServices" binding:"required,dive,required"`
	SelectedTime     string      `json:"selectedTime" binding:"required,tier"`
	Quantity         Quantity `json:"quantity" binding:"required"`
}

// Quantity holds the raw digits of a JSON number. Unlike json.Number it
// refuses quoted strings, so "2" is a type error rather than 2.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return &json.UnmarshalTypeError{
			Value: jsonKind(b),
			Type:  reflect.TypeOf(0),
		}
	}
	*q = Quantity(b)
	return nil
}

// Number returns q in the form the pricing engine parses.
func (q Quantity) Number() json.Number {
	return json.Number(q)
}

func jsonKind(b []byte) string {
	if len(b) == 0 {
		return "empty"
	}
	switch b[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case '{':
		return "object"
	case '[':
		return "array"
	default:
		return "value"
	}
}

// QuoteResult is the outcome of a single price computation.
type QuoteResult struct {
	Total      decimal.Decimal `json:"total"`
	Prepayment decimal.Decimal `json:"pm"`
}
