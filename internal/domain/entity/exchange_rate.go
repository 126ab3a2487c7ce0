package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a currency exchange rate recorded for a specific date,
// expressed in target-currency units per one US dollar.
type ExchangeRate struct {
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Rate     decimal.Decimal `json:"rate"`
}
