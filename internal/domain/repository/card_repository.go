// Package repository defines the storage and rate-source contracts the
// application services depend on.
package repository

import (
	"context"

	"github.com/amilagm/wex/internal/domain/entity"
)

// CardRepository defines the interface for card storage.
type CardRepository interface {
	// FindByNumber retrieves a card by its 16-digit number. Returns
	// (nil, nil) when no card with that number exists.
	FindByNumber(ctx context.Context, number string) (*entity.Card, error)

	// Insert saves a new card. Card numbers are unique; inserting a
	// duplicate number fails with a Conflict error.
	Insert(ctx context.Context, card *entity.Card) error
}
