package service

import (
	"context"
	"strings"
	"time"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/amilagm/wex/internal/domain/repository"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// ConversionResult is the outcome of converting a USD amount into a
// target currency. Computed per request, never persisted.
type ConversionResult struct {
	OriginalAmountUSD decimal.Decimal
	TargetCurrency    string
	Rate              decimal.Decimal
	RateDate          time.Time
	ConvertedAmount   decimal.Decimal
}

// IsBaseCurrency reports whether the resolved target is the base currency,
// meaning no conversion actually took place.
func (r *ConversionResult) IsBaseCurrency() bool {
	return strings.EqualFold(r.TargetCurrency, entity.BaseCurrency)
}

// ConversionService converts USD amounts into other currencies using
// historical Treasury rates.
type ConversionService struct {
	rates  repository.ExchangeRateProvider
	logger logger.Logger
}

// NewConversionService creates a new conversion service.
func NewConversionService(rates repository.ExchangeRateProvider, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{rates: rates, logger: log}
}

// Convert converts amountUSD into targetCurrency using the most recent
// rate on or before asOf. Zero amounts and base-currency targets never
// consult the rate source. Recency validation is the provider's job.
func (s *ConversionService) Convert(ctx context.Context, amountUSD decimal.Decimal, targetCurrency string, asOf time.Time) (*ConversionResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if normalized == "" {
		return nil, apperr.Invalid("currency is required")
	}

	one := decimal.NewFromInt(1)

	// Zero converts to zero in any currency.
	if amountUSD.IsZero() {
		return &ConversionResult{
			OriginalAmountUSD: decimal.Zero,
			TargetCurrency:    normalized,
			Rate:              one,
			RateDate:          asOf,
			ConvertedAmount:   decimal.Zero,
		}, nil
	}

	if normalized == entity.BaseCurrency {
		return &ConversionResult{
			OriginalAmountUSD: amountUSD,
			TargetCurrency:    entity.BaseCurrency,
			Rate:              one,
			RateDate:          asOf,
			ConvertedAmount:   entity.RoundAmount(amountUSD),
		}, nil
	}

	rate, err := s.rates.GetRate(ctx, normalized, asOf)
	if err != nil {
		s.logger.Error("Failed to get exchange rate", map[string]interface{}{
			"currency": normalized,
			"date":     asOf.Format("2006-01-02"),
			"error":    err.Error(),
		})
		return nil, err
	}

	converted := entity.RoundAmount(amountUSD.Mul(rate.Rate))

	s.logger.Debug("Conversion completed", map[string]interface{}{
		"currency":         rate.Currency,
		"rate":             rate.Rate.String(),
		"rate_date":        rate.Date.Format("2006-01-02"),
		"original_amount":  amountUSD.String(),
		"converted_amount": converted.String(),
	})

	return &ConversionResult{
		OriginalAmountUSD: amountUSD,
		TargetCurrency:    rate.Currency,
		Rate:              rate.Rate,
		RateDate:          rate.Date,
		ConvertedAmount:   converted,
	}, nil
}
