package service

import (
	"context"
	"testing"
	"time"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/amilagm/wex/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testCard(t *testing.T, limit string) *entity.Card {
	t.Helper()
	money, err := entity.USD(dec(limit))
	assert.NoError(t, err)
	card, err := entity.NewCard("card-1", "1234567890123456", money)
	assert.NoError(t, err)
	return card
}

func testPurchase(t *testing.T, id, amount string, date time.Time) *entity.PurchaseTransaction {
	t.Helper()
	money, err := entity.USD(dec(amount))
	assert.NoError(t, err)
	p, err := entity.NewPurchaseTransaction(id, "card-1", "test purchase", date, money)
	assert.NoError(t, err)
	return p
}

func TestAddPurchase(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)

	newService := func(cards *mocks.MockCardRepository, purchases *mocks.MockPurchaseRepository) *PurchaseService {
		rates := new(mocks.MockExchangeRateProvider)
		return NewPurchaseService(cards, purchases, NewConversionService(rates, log), log)
	}

	t.Run("Valid purchase is persisted with the rounded amount", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		svc := newService(cards, purchases)

		cards.On("FindByNumber", ctx, "1234567890123456").Return(testCard(t, "100.00"), nil).Once()
		purchases.On("ListByCard", ctx, "card-1").Return([]*entity.PurchaseTransaction{}, nil).Once()
		purchases.On("Insert", ctx, mock.MatchedBy(func(p *entity.PurchaseTransaction) bool {
			return p.Amount.Amount.StringFixed(2) == "10.56" && p.Description == "Coffee"
		})).Return(nil).Once()

		created, err := svc.Add(ctx, "1234567890123456", "Coffee", date, dec("10.555"))

		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "10.56", created.Amount.Amount.StringFixed(2))
		cards.AssertExpectations(t)
		purchases.AssertExpectations(t)
	})

	t.Run("Unknown card fails with NotFound", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		svc := newService(cards, purchases)

		cards.On("FindByNumber", ctx, "9999999999999999").Return(nil, nil).Once()

		_, err := svc.Add(ctx, "9999999999999999", "Coffee", date, dec("10"))

		assert.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		purchases.AssertNotCalled(t, "Insert")
	})

	t.Run("Landing exactly on the limit succeeds", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		svc := newService(cards, purchases)

		existing := []*entity.PurchaseTransaction{testPurchase(t, "p-1", "60.00", date)}

		cards.On("FindByNumber", ctx, "1234567890123456").Return(testCard(t, "100.00"), nil).Once()
		purchases.On("ListByCard", ctx, "card-1").Return(existing, nil).Once()
		purchases.On("Insert", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.Add(ctx, "1234567890123456", "At the limit", date, dec("40.00"))

		assert.NoError(t, err)
		purchases.AssertExpectations(t)
	})

	t.Run("One cent over the limit conflicts and nothing is persisted", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		svc := newService(cards, purchases)

		existing := []*entity.PurchaseTransaction{testPurchase(t, "p-1", "60.00", date)}

		cards.On("FindByNumber", ctx, "1234567890123456").Return(testCard(t, "100.00"), nil).Once()
		purchases.On("ListByCard", ctx, "card-1").Return(existing, nil).Once()

		_, err := svc.Add(ctx, "1234567890123456", "Over the limit", date, dec("40.01"))

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		purchases.AssertNotCalled(t, "Insert")
	})

	t.Run("Limit check uses the rounded amount", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		svc := newService(cards, purchases)

		// 40.004 rounds to 40.00 and fits; 40.005 rounds to 40.01 and does not.
		existing := []*entity.PurchaseTransaction{testPurchase(t, "p-1", "60.00", date)}

		cards.On("FindByNumber", ctx, "1234567890123456").Return(testCard(t, "100.00"), nil)
		purchases.On("ListByCard", ctx, "card-1").Return(existing, nil)
		purchases.On("Insert", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.Add(ctx, "1234567890123456", "Rounds down", date, dec("40.004"))
		assert.NoError(t, err)

		_, err = svc.Add(ctx, "1234567890123456", "Rounds up", date, dec("40.005"))
		assert.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("Invalid description is rejected before persistence", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		svc := newService(cards, purchases)

		cards.On("FindByNumber", ctx, "1234567890123456").Return(testCard(t, "100.00"), nil).Once()
		purchases.On("ListByCard", ctx, "card-1").Return([]*entity.PurchaseTransaction{}, nil).Once()

		_, err := svc.Add(ctx, "1234567890123456", "   ", date, dec("10"))

		assert.Error(t, err)
		assert.Equal(t, apperr.KindInvalidValue, apperr.KindOf(err))
		purchases.AssertNotCalled(t, "Insert")
	})
}

func TestGetConvertedPurchase(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)

	t.Run("Converts using the purchase's own transaction date", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		rates := new(mocks.MockExchangeRateProvider)
		svc := NewPurchaseService(cards, purchases, NewConversionService(rates, log), log)

		purchase := testPurchase(t, "p-1", "100.00", date)
		rateDate := date.AddDate(0, 0, -10)

		purchases.On("FindByID", ctx, "p-1").Return(purchase, nil).Once()
		rates.On("GetRate", ctx, "EUR", date).Return(&entity.ExchangeRate{
			Currency: "EUR",
			Date:     rateDate,
			Rate:     dec("1.333"),
		}, nil).Once()

		result, err := svc.GetConverted(ctx, "p-1", "EUR")

		assert.NoError(t, err)
		assert.Equal(t, "133.30", result.ConvertedAmount.StringFixed(2))
		assert.Equal(t, "EUR", result.Currency)
		assert.Equal(t, rateDate, result.RateDate)
		rates.AssertExpectations(t)
	})

	t.Run("Base currency lookups still populate rate fields", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		rates := new(mocks.MockExchangeRateProvider)
		svc := NewPurchaseService(cards, purchases, NewConversionService(rates, log), log)

		purchase := testPurchase(t, "p-1", "100.00", date)
		purchases.On("FindByID", ctx, "p-1").Return(purchase, nil).Once()

		result, err := svc.GetConverted(ctx, "p-1", "USD")

		assert.NoError(t, err)
		assert.Equal(t, "USD", result.Currency)
		assert.Equal(t, "1", result.Rate.String())
		assert.Equal(t, date, result.RateDate)
		assert.Equal(t, "100.00", result.ConvertedAmount.StringFixed(2))
		rates.AssertNotCalled(t, "GetRate")
	})

	t.Run("Unknown purchase fails with NotFound", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		purchases := new(mocks.MockPurchaseRepository)
		rates := new(mocks.MockExchangeRateProvider)
		svc := NewPurchaseService(cards, purchases, NewConversionService(rates, log), log)

		purchases.On("FindByID", ctx, "missing").Return(nil, nil).Once()

		_, err := svc.GetConverted(ctx, "missing", "EUR")

		assert.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
