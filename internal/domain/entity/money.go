package entity

import (
	"strings"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

const (
	// BaseCurrency is the fixed currency cards and purchases are denominated in.
	BaseCurrency = "USD"

	moneyDecimalPlaces = 2
)

// Money is a validated monetary amount with a 3-letter currency code.
// The amount is always rounded to cents and strictly positive; zero or
// negative intermediate results stay raw decimals until they are known
// to be positive.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney constructs a Money value, rounding the amount to cents first.
// The rounded amount must be positive and the currency non-blank.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return Money{}, apperr.Invalid("currency is required")
	}

	rounded := RoundAmount(amount)
	if rounded.Sign() <= 0 {
		return Money{}, apperr.Invalid("amount must be a positive value")
	}

	return Money{Amount: rounded, Currency: strings.ToUpper(currency)}, nil
}

// USD constructs a Money value in the base currency.
func USD(amount decimal.Decimal) (Money, error) {
	return NewMoney(amount, BaseCurrency)
}

// RoundAmount rounds to cents, ties away from zero (10.555 becomes 10.56).
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyDecimalPlaces)
}
