package handler

import "github.com/shopspring/decimal"

// CreateCardRequest is the request body for creating a card.
type CreateCardRequest struct {
	CardNumber  string          `json:"card_number"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CardResponse is returned after creating a card.
type CardResponse struct {
	ID             string          `json:"id"`
	CardNumber     string          `json:"card_number"`
	CreditLimitUSD decimal.Decimal `json:"credit_limit_usd"`
}

// BalanceResponse is returned by the balance endpoint. ExchangeRate and
// RateDate are omitted when the target currency is USD.
type BalanceResponse struct {
	CardNumber         string           `json:"card_number"`
	CreditLimitUSD     decimal.Decimal  `json:"credit_limit_usd"`
	TotalPurchasesUSD  decimal.Decimal  `json:"total_purchases_usd"`
	AvailableUSD       decimal.Decimal  `json:"available_usd"`
	Currency           string           `json:"currency"`
	ExchangeRate       *decimal.Decimal `json:"exchange_rate,omitempty"`
	RateDate           *string          `json:"rate_date,omitempty"`
	AvailableConverted decimal.Decimal  `json:"available_converted"`
}

// CreatePurchaseRequest is the request body for recording a purchase.
type CreatePurchaseRequest struct {
	CardNumber  string          `json:"card_number"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

// PurchaseResponse is returned after recording a purchase.
type PurchaseResponse struct {
	ID          string          `json:"id"`
	CardID      string          `json:"card_id"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	AmountUSD   decimal.Decimal `json:"amount_usd"`
}

// ConvertedPurchaseResponse is returned by the purchase lookup endpoint.
// Rate fields are always populated, including for USD.
type ConvertedPurchaseResponse struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Date            string          `json:"date"`
	AmountUSD       decimal.Decimal `json:"amount_usd"`
	Currency        string          `json:"currency"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	RateDate        string          `json:"rate_date"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
}

// ErrorResponse is the standardized error envelope.
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
