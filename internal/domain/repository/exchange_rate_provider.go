package repository

import (
	"context"
	"time"

	"github.com/amilagm/wex/internal/domain/entity"
)

// ExchangeRateProvider fetches exchange rates from the remote rate source.
type ExchangeRateProvider interface {
	// GetRate returns the most recent rate for the currency dated on or
	// before date and no more than the validity window before it. The
	// provider enforces that recency policy itself; callers receive
	// either a usable rate or a ConversionUnavailable error.
	GetRate(ctx context.Context, currency string, date time.Time) (*entity.ExchangeRate, error)
}
