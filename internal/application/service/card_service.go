package service

import (
	"context"
	"time"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/amilagm/wex/internal/domain/repository"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardBalance is a card's available balance, optionally converted into a
// target currency. Rate and RateDate are nil when the target is the base
// currency, since no conversion took place.
type CardBalance struct {
	CardID            string
	CreditLimitUSD    decimal.Decimal
	TotalPurchasesUSD decimal.Decimal
	AvailableUSD      decimal.Decimal
	Currency          string
	Rate              *decimal.Decimal
	RateDate          *time.Time
	Available         decimal.Decimal
}

// CardService handles card creation and balance queries.
type CardService struct {
	cards     repository.CardRepository
	purchases repository.PurchaseRepository
	converter *ConversionService
	logger    logger.Logger
}

// NewCardService creates a new card service.
func NewCardService(cards repository.CardRepository, purchases repository.PurchaseRepository, converter *ConversionService, log logger.Logger) *CardService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CardService{cards: cards, purchases: purchases, converter: converter, logger: log}
}

// Create validates and stores a new card with the given number and USD
// credit limit.
func (s *CardService) Create(ctx context.Context, number string, creditLimitUSD decimal.Decimal) (*entity.Card, error) {
	existing, err := s.cards.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("Attempted to create duplicate card", map[string]interface{}{
			"card_number": number,
		})
		return nil, apperr.Conflict("card with number %s already exists", number)
	}

	limit, err := entity.USD(creditLimitUSD)
	if err != nil {
		return nil, err
	}

	card, err := entity.NewCard(uuid.New().String(), number, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cards.Insert(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Info("Card created", map[string]interface{}{
		"card_id":      card.ID,
		"credit_limit": card.CreditLimit.Amount.String(),
	})

	return card, nil
}

// GetBalance computes the card's available balance and converts it into
// the requested currency as of the given date. Historical purchases are
// trusted as-is; the balance is never floored at zero.
func (s *CardService) GetBalance(ctx context.Context, number, currency string, asOf time.Time) (*CardBalance, error) {
	card, err := s.cards.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if card == nil {
		s.logger.Warn("Card not found", map[string]interface{}{"card_number": number})
		return nil, apperr.NotFound("card %s was not found", number)
	}

	purchases, err := s.purchases.ListByCard(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	total := entity.TotalPurchases(purchases)
	available := entity.AvailableBalance(card, purchases)

	conversion, err := s.converter.Convert(ctx, available, currency, asOf)
	if err != nil {
		return nil, err
	}

	balance := &CardBalance{
		CardID:            card.ID,
		CreditLimitUSD:    card.CreditLimit.Amount,
		TotalPurchasesUSD: total,
		AvailableUSD:      available,
		Currency:          conversion.TargetCurrency,
		Available:         conversion.ConvertedAmount,
	}

	// Base-currency balances report no rate: nothing was converted.
	if !conversion.IsBaseCurrency() {
		rate := conversion.Rate
		rateDate := conversion.RateDate
		balance.Rate = &rate
		balance.RateDate = &rateDate
	}

	return balance, nil
}
