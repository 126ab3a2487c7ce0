package entity

import (
	"strings"
	"time"

	"github.com/amilagm/wex/internal/domain/apperr"
)

// DescriptionMaxLength bounds a purchase description after trimming.
const DescriptionMaxLength = 50

// PurchaseTransaction represents a recorded purchase against a card.
// Purchases are immutable once created; the amount is always in the
// base currency.
type PurchaseTransaction struct {
	ID          string    `json:"id"`
	CardID      string    `json:"card_id"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Amount      Money     `json:"amount"`
}

// NewPurchaseTransaction validates and constructs a purchase. The
// description is trimmed before the length check.
func NewPurchaseTransaction(id, cardID, description string, date time.Time, amount Money) (*PurchaseTransaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Invalid("purchase ID is required")
	}

	if strings.TrimSpace(cardID) == "" {
		return nil, apperr.Invalid("card ID is required")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Invalid("description is required")
	}

	if len(description) > DescriptionMaxLength {
		return nil, apperr.Invalid("description must not exceed %d characters", DescriptionMaxLength)
	}

	return &PurchaseTransaction{
		ID:          id,
		CardID:      cardID,
		Description: description,
		Date:        date,
		Amount:      amount,
	}, nil
}
