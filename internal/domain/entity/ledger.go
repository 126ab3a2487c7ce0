package entity

import "github.com/shopspring/decimal"

// TotalPurchases sums the amounts of all recorded purchases.
func TotalPurchases(purchases []*PurchaseTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Amount.Amount)
	}
	return total
}

// AvailableBalance returns the credit limit minus all recorded purchases.
// Already-recorded purchases are trusted as-is, so the result may be
// negative; it is never floored at zero.
func AvailableBalance(card *Card, purchases []*PurchaseTransaction) decimal.Decimal {
	return card.CreditLimit.Amount.Sub(TotalPurchases(purchases))
}

// WouldExceedLimit reports whether adding amount to the card's recorded
// purchases would exceed its credit limit. Landing exactly on the limit
// is allowed.
func WouldExceedLimit(card *Card, purchases []*PurchaseTransaction, amount decimal.Decimal) bool {
	return TotalPurchases(purchases).Add(amount).GreaterThan(card.CreditLimit.Amount)
}
