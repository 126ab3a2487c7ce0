// Package db implements the storage interfaces on BadgerDB.
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
	cardKeyPrefix    = "card:"
	cardNumberPrefix = "cardnum:"
)

// BadgerCardRepository implements the card repository interface using
// BadgerDB. Cards are stored by ID with a secondary number index that
// also guarantees number uniqueness.
type BadgerCardRepository struct {
	db *badger.DB
}

// NewBadgerCardRepository creates a new BadgerDB card repository.
func NewBadgerCardRepository(db *badger.DB) *BadgerCardRepository {
	return &BadgerCardRepository{db: db}
}

// Insert saves a new card, rejecting duplicate card numbers with a
// Conflict error. The uniqueness check and both writes happen in one
// Badger transaction.
func (r *BadgerCardRepository) Insert(ctx context.Context, card *entity.Card) error {
	data, err := json.Marshal(card)
	if err != nil {
		return apperr.Infrastructure("unable to save card, please try again later", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		numberKey := []byte(cardNumberPrefix + card.Number)

		_, err := txn.Get(numberKey)
		if err == nil {
			return apperr.Conflict("card with number %s already exists", card.Number)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set([]byte(cardKeyPrefix+card.ID), data); err != nil {
			return err
		}
		return txn.Set(numberKey, []byte(card.ID))
	})

	if err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return err
		}
		return apperr.Infrastructure("unable to save card, please try again later", err)
	}

	return nil
}

// FindByNumber retrieves a card by its number, returning (nil, nil) when
// absent.
func (r *BadgerCardRepository) FindByNumber(ctx context.Context, number string) (*entity.Card, error) {
	var card entity.Card
	found := false

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cardNumberPrefix + number))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}

		item, err = txn.Get([]byte(cardKeyPrefix + string(id)))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &card); err != nil {
				return err
			}
			found = true
			return nil
		})
	})

	if err != nil {
		return nil, apperr.Infrastructure("unable to retrieve card, please try again later", err)
	}
	if !found {
		return nil, nil
	}

	return &card, nil
}
