package entity

import (
	"regexp"
	"strings"

	"github.com/amilagm/wex/internal/domain/apperr"
)

var cardNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)

// Card represents a credit card with a fixed USD credit limit.
// Cards are immutable once created.
type Card struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	CreditLimit Money  `json:"credit_limit"`
}

// NewCard validates and constructs a card.
func NewCard(id, number string, creditLimit Money) (*Card, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Invalid("card ID is required")
	}

	if !cardNumberPattern.MatchString(number) {
		return nil, apperr.Invalid("card number must be a 16-digit numeric string")
	}

	return &Card{ID: id, Number: number, CreditLimit: creditLimit}, nil
}
