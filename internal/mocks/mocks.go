// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository mocks the CardRepository interface.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindByNumber(ctx context.Context, number string) (*entity.Card, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Card), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card *entity.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// MockPurchaseRepository mocks the PurchaseRepository interface.
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PurchaseTransaction), args.Error(1)
}

func (m *MockPurchaseRepository) ListByCard(ctx context.Context, cardID string) ([]*entity.PurchaseTransaction, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PurchaseTransaction), args.Error(1)
}

func (m *MockPurchaseRepository) Insert(ctx context.Context, purchase *entity.PurchaseTransaction) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

// MockExchangeRateProvider mocks the ExchangeRateProvider interface.
type MockExchangeRateProvider struct {
	mock.Mock
}

func (m *MockExchangeRateProvider) GetRate(ctx context.Context, currency string, date time.Time) (*entity.ExchangeRate, error) {
	args := m.Called(ctx, currency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExchangeRate), args.Error(1)
}
