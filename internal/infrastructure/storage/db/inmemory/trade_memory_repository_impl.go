package inmemory

import (
	"context"
	"errors"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

var errTradeNotFound = errors.New("trade not found")

type tradeRepositoryImpl struct {
	store *tradeInmemoryStore
}

// NewTradeRepositoryImpl returns a new inmemory TradeRepository implementation.
func NewTradeRepositoryImpl(store *tradeInmemoryStore) domain.TradeRepository {
	return &tradeRepositoryImpl{store}
}

func (r *tradeRepositoryImpl) AddTrade(
	_ context.Context, trade *domain.Trade,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.trades[trade.Id]; ok {
		return nil
	}

	r.store.trades[trade.Id] = *trade
	r.store.insertionOrder = append(r.store.insertionOrder, trade.Id)
	r.addTradeByParty(trade.InitiatorAddress, trade.Id)
	r.addTradeByParty(trade.CounterpartyAddress, trade.Id)
	return nil
}

func (r *tradeRepositoryImpl) GetTrade(
	_ context.Context, tradeID string,
) (*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	trade, ok := r.store.trades[tradeID]
	if !ok {
		return nil, nil
	}
	return &trade, nil
}

func (r *tradeRepositoryImpl) GetAllTrades(
	_ context.Context,
) ([]*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	allTrades := make([]*domain.Trade, 0, len(r.store.insertionOrder))
	for _, tradeID := range r.store.insertionOrder {
		trade := r.store.trades[tradeID]
		allTrades = append(allTrades, &trade)
	}
	return allTrades, nil
}

func (r *tradeRepositoryImpl) GetTradesByParty(
	_ context.Context, address string,
) ([]*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	tradeIDs := r.store.tradesByParty[address]
	trades := make([]*domain.Trade, 0, len(tradeIDs))
	for _, tradeID := range tradeIDs {
		trade := r.store.trades[tradeID]
		trades = append(trades, &trade)
	}
	return trades, nil
}

func (r *tradeRepositoryImpl) UpdateTrade(
	_ context.Context,
	tradeID string,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentTrade, ok := r.store.trades[tradeID]
	if !ok {
		return errTradeNotFound
	}

	updatedTrade, err := updateFn(&currentTrade)
	if err != nil {
		return err
	}

	r.store.trades[tradeID] = *updatedTrade
	return nil
}

func (r *tradeRepositoryImpl) addTradeByParty(address, tradeID string) {
	for _, id := range r.store.tradesByParty[address] {
		if id == tradeID {
			return
		}
	}
	r.store.tradesByParty[address] = append(
		r.store.tradesByParty[address], tradeID,
	)
}
