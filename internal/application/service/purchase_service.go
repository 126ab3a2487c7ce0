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

// ConvertedPurchase is a purchase with its amount converted into a target
// currency using the purchase's own transaction date. Unlike balances,
// rate fields are always populated, even for the base currency.
type ConvertedPurchase struct {
	ID              string
	Description     string
	Date            time.Time
	AmountUSD       decimal.Decimal
	Currency        string
	Rate            decimal.Decimal
	RateDate        time.Time
	ConvertedAmount decimal.Decimal
}

// PurchaseService handles purchase admission and converted lookups.
type PurchaseService struct {
	cards     repository.CardRepository
	purchases repository.PurchaseRepository
	converter *ConversionService
	logger    logger.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(cards repository.CardRepository, purchases repository.PurchaseRepository, converter *ConversionService, log logger.Logger) *PurchaseService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &PurchaseService{cards: cards, purchases: purchases, converter: converter, logger: log}
}

// Add validates a purchase against the card's available credit and stores
// it. The amount is rounded to cents before the limit check so rounding
// cannot push a borderline purchase over the limit undetected. The load
// total / insert sequence is not serialized against concurrent purchases
// on the same card; that window is an accepted limitation.
func (s *PurchaseService) Add(ctx context.Context, cardNumber, description string, date time.Time, amountUSD decimal.Decimal) (*entity.PurchaseTransaction, error) {
	card, err := s.cards.FindByNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}
	if card == nil {
		s.logger.Warn("Card not found when adding purchase", map[string]interface{}{
			"card_number": cardNumber,
		})
		return nil, apperr.NotFound("card %s was not found", cardNumber)
	}

	rounded := entity.RoundAmount(amountUSD)

	existing, err := s.purchases.ListByCard(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	if entity.WouldExceedLimit(card, existing, rounded) {
		s.logger.Warn("Purchase would exceed credit limit", map[string]interface{}{
			"card_number": cardNumber,
			"amount":      rounded.String(),
		})
		return nil, apperr.Conflict("purchase would exceed card credit limit")
	}

	amount, err := entity.USD(rounded)
	if err != nil {
		return nil, err
	}

	purchase, err := entity.NewPurchaseTransaction(uuid.New().String(), card.ID, description, date, amount)
	if err != nil {
		return nil, err
	}

	if err := s.purchases.Insert(ctx, purchase); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase recorded", map[string]interface{}{
		"purchase_id": purchase.ID,
		"card_number": cardNumber,
		"amount":      purchase.Amount.Amount.String(),
	})

	return purchase, nil
}

// GetConverted retrieves a purchase and converts its amount into the
// requested currency, using the purchase's transaction date as the
// reference date for the rate lookup.
func (s *PurchaseService) GetConverted(ctx context.Context, id, currency string) (*ConvertedPurchase, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		s.logger.Warn("Purchase not found", map[string]interface{}{"purchase_id": id})
		return nil, apperr.NotFound("purchase %s was not found", id)
	}

	conversion, err := s.converter.Convert(ctx, purchase.Amount.Amount, currency, purchase.Date)
	if err != nil {
		return nil, err
	}

	return &ConvertedPurchase{
		ID:              purchase.ID,
		Description:     purchase.Description,
		Date:            purchase.Date,
		AmountUSD:       purchase.Amount.Amount,
		Currency:        conversion.TargetCurrency,
		Rate:            conversion.Rate,
		RateDate:        conversion.RateDate,
		ConvertedAmount: conversion.ConvertedAmount,
	}, nil
}
