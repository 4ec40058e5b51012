package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

var errTradeNotFound = errors.New("trade not found")

type tradeRepositoryImpl struct {
	db *DbManager
}

// NewTradeRepositoryImpl returns a badgerhold-backed TradeRepository.
func NewTradeRepositoryImpl(db *DbManager) domain.TradeRepository {
	return tradeRepositoryImpl{db}
}

func (t tradeRepositoryImpl) AddTrade(
	_ context.Context, trade *domain.Trade,
) error {
	if err := t.db.Store.Insert(trade.Id, trade); err != nil {
		if err != badgerhold.ErrKeyExists {
			return err
		}
	}
	return nil
}

func (t tradeRepositoryImpl) GetTrade(
	_ context.Context, tradeID string,
) (*domain.Trade, error) {
	var trade domain.Trade
	if err := t.db.Store.Get(tradeID, &trade); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &trade, nil
}

func (t tradeRepositoryImpl) GetAllTrades(
	_ context.Context,
) ([]*domain.Trade, error) {
	var trades []domain.Trade
	if err := t.db.Store.Find(&trades, nil); err != nil {
		return nil, err
	}

	list := make([]*domain.Trade, 0, len(trades))
	for i := range trades {
		list = append(list, &trades[i])
	}
	return list, nil
}

func (t tradeRepositoryImpl) GetTradesByParty(
	_ context.Context, address string,
) ([]*domain.Trade, error) {
	query := badgerhold.Where("InitiatorAddress").Eq(address).
		Or(badgerhold.Where("CounterpartyAddress").Eq(address))

	var trades []domain.Trade
	if err := t.db.Store.Find(&trades, query); err != nil {
		return nil, err
	}

	list := make([]*domain.Trade, 0, len(trades))
	for i := range trades {
		list = append(list, &trades[i])
	}
	return list, nil
}

// UpdateTrade runs the update inside one badger transaction so that the
// status change and the history append always land together.
func (t tradeRepositoryImpl) UpdateTrade(
	_ context.Context,
	tradeID string,
	updateFn func(trade *domain.Trade) (*domain.Trade, error),
) error {
	return t.db.Store.Badger().Update(func(tx *badger.Txn) error {
		var trade domain.Trade
		if err := t.db.Store.TxGet(tx, tradeID, &trade); err != nil {
			if err == badgerhold.ErrNotFound {
				return errTradeNotFound
			}
			return err
		}

		updatedTrade, err := updateFn(&trade)
		if err != nil {
			return err
		}

		return t.db.Store.TxUpdate(tx, tradeID, *updatedTrade)
	})
}
