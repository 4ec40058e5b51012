package inmemory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

var ctx = context.Background()

func TestTradeRepositoryImpl(t *testing.T) {
	repo := NewRepoManager().TradeRepository()

	trade := newTestTrade(t)

	t.Run("add_and_get", func(t *testing.T) {
		require.NoError(t, repo.AddTrade(ctx, trade))
		require.NoError(t, repo.AddTrade(ctx, trade))

		stored, err := repo.GetTrade(ctx, trade.Id)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Equal(t, trade.Id, stored.Id)
		require.True(t, stored.IsPending())
	})

	t.Run("get_unknown_trade", func(t *testing.T) {
		stored, err := repo.GetTrade(ctx, "unknown")
		require.NoError(t, err)
		require.Nil(t, stored)
	})

	t.Run("get_trades_by_party", func(t *testing.T) {
		for _, address := range []string{
			trade.InitiatorAddress, trade.CounterpartyAddress,
		} {
			trades, err := repo.GetTradesByParty(ctx, address)
			require.NoError(t, err)
			require.Len(t, trades, 1)
		}

		trades, err := repo.GetTradesByParty(ctx, "0x"+randstr.Hex(20))
		require.NoError(t, err)
		require.Empty(t, trades)
	})

	t.Run("update_trade", func(t *testing.T) {
		err := repo.UpdateTrade(
			ctx, trade.Id, func(tt *domain.Trade) (*domain.Trade, error) {
				if err := tt.Accept(tt.CounterpartyAddress); err != nil {
					return nil, err
				}
				return tt, nil
			},
		)
		require.NoError(t, err)

		stored, err := repo.GetTrade(ctx, trade.Id)
		require.NoError(t, err)
		require.True(t, stored.IsAgreed())
		require.Len(t, stored.History, 2)
	})

	t.Run("failing_update_leaves_trade_untouched", func(t *testing.T) {
		err := repo.UpdateTrade(
			ctx, trade.Id, func(tt *domain.Trade) (*domain.Trade, error) {
				return nil, domain.ErrTradeStale
			},
		)
		require.EqualError(t, err, domain.ErrTradeStale.Error())

		stored, err := repo.GetTrade(ctx, trade.Id)
		require.NoError(t, err)
		require.True(t, stored.IsAgreed())
	})

	t.Run("update_unknown_trade", func(t *testing.T) {
		err := repo.UpdateTrade(
			ctx, "unknown", func(tt *domain.Trade) (*domain.Trade, error) {
				return tt, nil
			},
		)
		require.EqualError(t, err, errTradeNotFound.Error())
	})

	t.Run("get_all_trades_in_insertion_order", func(t *testing.T) {
		other := newTestTrade(t)
		require.NoError(t, repo.AddTrade(ctx, other))

		trades, err := repo.GetAllTrades(ctx)
		require.NoError(t, err)
		require.Len(t, trades, 2)
		require.Equal(t, trade.Id, trades[0].Id)
		require.Equal(t, other.Id, trades[1].Id)
	})
}

func newTestTrade(t *testing.T) *domain.Trade {
	initiator := "0x" + randstr.Hex(20)
	counterparty := "0x" + randstr.Hex(20)

	trade, err := domain.NewTrade(initiator, counterparty)
	require.NoError(t, err)

	items := []domain.TradeItem{{
		Asset: domain.AssetRef{
			ID:            "nft-" + randstr.Hex(8),
			DisplayName:   "asset " + randstr.Hex(4),
			AssessedValue: decimal.NewFromInt(3),
		},
		Side:        domain.SideInitiator,
		StagedValue: decimal.NewFromInt(3),
	}}
	require.NoError(t, trade.Submit(initiator, items))
	return trade
}
