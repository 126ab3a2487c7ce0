package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const (
	purchaseKeyPrefix = "purchase:"
	cardTxKeyPrefix   = "cardtx:"
)

// BadgerPurchaseRepository implements the purchase repository interface
// using BadgerDB. Purchases are stored by ID with a per-card index keyed
// by transaction date, so a prefix scan yields them in date order.
type BadgerPurchaseRepository struct {
	db *badger.DB
}

// NewBadgerPurchaseRepository creates a new BadgerDB purchase repository.
func NewBadgerPurchaseRepository(db *badger.DB) *BadgerPurchaseRepository {
	return &BadgerPurchaseRepository{db: db}
}

func cardTxKey(cardID string, purchase *entity.PurchaseTransaction) []byte {
	return []byte(cardTxKeyPrefix + cardID + ":" + purchase.Date.Format("2006-01-02") + ":" + purchase.ID)
}

// Insert saves a new purchase and its card index entry.
func (r *BadgerPurchaseRepository) Insert(ctx context.Context, purchase *entity.PurchaseTransaction) error {
	data, err := json.Marshal(purchase)
	if err != nil {
		return apperr.Infrastructure("unable to save purchase, please try again later", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(purchaseKeyPrefix+purchase.ID), data); err != nil {
			return err
		}
		return txn.Set(cardTxKey(purchase.CardID, purchase), []byte(purchase.ID))
	})

	if err != nil {
		return apperr.Infrastructure("unable to save purchase, please try again later", err)
	}

	return nil
}

// FindByID retrieves a purchase by ID, returning (nil, nil) when absent.
func (r *BadgerPurchaseRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseTransaction, error) {
	var purchase entity.PurchaseTransaction
	found := false

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(purchaseKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &purchase); err != nil {
				return err
			}
			found = true
			return nil
		})
	})

	if err != nil {
		return nil, apperr.Infrastructure("unable to retrieve purchase, please try again later", err)
	}
	if !found {
		return nil, nil
	}

	return &purchase, nil
}

// ListByCard returns all purchases for a card ordered by transaction date.
func (r *BadgerPurchaseRepository) ListByCard(ctx context.Context, cardID string) ([]*entity.PurchaseTransaction, error) {
	var purchases []*entity.PurchaseTransaction

	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(cardTxKeyPrefix + cardID + ":")

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		// Index keys embed the date, so iteration order is date order.
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			item, err := txn.Get([]byte(purchaseKeyPrefix + string(id)))
			if err != nil {
				return err
			}

			var purchase entity.PurchaseTransaction
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &purchase)
			})
			if err != nil {
				return err
			}

			purchases = append(purchases, &purchase)
		}

		return nil
	})

	if err != nil {
		return nil, apperr.Infrastructure("unable to retrieve purchases, please try again later", err)
	}

	return purchases, nil
}
