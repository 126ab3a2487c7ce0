package repository

import (
	"context"

	"github.com/amilagm/wex/internal/domain/entity"
)

// PurchaseRepository defines the interface for purchase storage.
type PurchaseRepository interface {
	// FindByID retrieves a purchase by its unique identifier. Returns
	// (nil, nil) when no purchase with that ID exists.
	FindByID(ctx context.Context, id string) (*entity.PurchaseTransaction, error)

	// ListByCard returns all purchases recorded against a card, ordered
	// by transaction date.
	ListByCard(ctx context.Context, cardID string) ([]*entity.PurchaseTransaction, error)

	// Insert saves a new purchase.
	Insert(ctx context.Context, purchase *entity.PurchaseTransaction) error
}
