package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/stretchr/testify/assert"
)

func TestNewPurchaseTransaction(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Valid purchase trims the description", func(t *testing.T) {
		amount := mustUSD(t, "25.50")
		p, err := NewPurchaseTransaction("p-1", "c-1", "  Coffee shop  ", date, amount)
		assert.NoError(t, err)
		assert.Equal(t, "Coffee shop", p.Description)
		assert.Equal(t, date, p.Date)
	})

	t.Run("Description length is checked after trimming", func(t *testing.T) {
		amount := mustUSD(t, "25.50")

		// 50 characters plus surrounding whitespace is still valid.
		exactly50 := strings.Repeat("a", 50)
		_, err := NewPurchaseTransaction("p-1", "c-1", "  "+exactly50+"  ", date, amount)
		assert.NoError(t, err)

		tooLong := strings.Repeat("a", 51)
		_, err = NewPurchaseTransaction("p-1", "c-1", tooLong, date, amount)
		assert.Error(t, err)
		assert.Equal(t, apperr.KindInvalidValue, apperr.KindOf(err))
	})

	t.Run("Rejects blank description", func(t *testing.T) {
		amount := mustUSD(t, "25.50")
		_, err := NewPurchaseTransaction("p-1", "c-1", "   ", date, amount)
		assert.Error(t, err)
		assert.Equal(t, apperr.KindInvalidValue, apperr.KindOf(err))
	})

	t.Run("Rejects blank IDs", func(t *testing.T) {
		amount := mustUSD(t, "25.50")

		_, err := NewPurchaseTransaction("", "c-1", "Coffee", date, amount)
		assert.Error(t, err)

		_, err = NewPurchaseTransaction("p-1", "", "Coffee", date, amount)
		assert.Error(t, err)
	})
}
