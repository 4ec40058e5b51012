package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

const (
	initiatorAddr    = "0xa11ce0000000000000000000000000000000dead"
	counterpartyAddr = "0xb0b00000000000000000000000000000000beef"
)

func TestNewTrade(t *testing.T) {
	trade, err := domain.NewTrade(initiatorAddr, counterpartyAddr)
	require.NoError(t, err)
	require.NotNil(t, trade)
	require.NotEmpty(t, trade.Id)
	require.Equal(t, domain.TradeStatusDraft, trade.Status)
	require.Empty(t, trade.History)
	require.False(t, trade.IsTerminal())
}

func TestFailingNewTrade(t *testing.T) {
	tests := []struct {
		name         string
		initiator    string
		counterparty string
	}{
		{
			name:         "missing_initiator",
			initiator:    "",
			counterparty: counterpartyAddr,
		},
		{
			name:         "missing_counterparty",
			initiator:    initiatorAddr,
			counterparty: "",
		},
		{
			name:         "self_trade",
			initiator:    initiatorAddr,
			counterparty: initiatorAddr,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			trade, err := domain.NewTrade(tt.initiator, tt.counterparty)
			require.EqualError(t, err, domain.ErrTradeInvalidParties.Error())
			require.Nil(t, trade)
		})
	}
}

func TestTradeSubmit(t *testing.T) {
	trade := newTradeDraft(t)
	items := []domain.TradeItem{
		newTradeItem(domain.SideInitiator, "3"),
		newTradeItem(domain.SideCounterparty, "3"),
	}

	err := trade.Submit(initiatorAddr, items)
	require.NoError(t, err)
	require.True(t, trade.IsPending())
	require.Equal(t, 100, trade.FairnessScore)
	require.Len(t, trade.History, 1)
	require.Equal(t, domain.TradeActionSubmit, trade.History[0].Action)
	require.Equal(t, domain.TradeStatusDraft, trade.History[0].PreviousStatus)
	require.Equal(t, domain.TradeStatusPending, trade.History[0].NewStatus)
	require.Equal(t, initiatorAddr, trade.History[0].ActorAddress)
	require.Len(t, trade.History[0].ItemsSnapshot, 2)
}

func TestFailingTradeSubmit(t *testing.T) {
	items := []domain.TradeItem{newTradeItem(domain.SideInitiator, "1")}

	tests := []struct {
		name        string
		trade       *domain.Trade
		actor       string
		items       []domain.TradeItem
		expectedErr error
	}{
		{
			name:        "counterparty_cannot_submit",
			trade:       newTradeDraft(t),
			actor:       counterpartyAddr,
			items:       items,
			expectedErr: domain.ErrTradeUnauthorizedActor,
		},
		{
			name:        "empty_offer",
			trade:       newTradeDraft(t),
			actor:       initiatorAddr,
			items:       nil,
			expectedErr: domain.ErrTradeEmptyOffer,
		},
		{
			name:        "already_submitted",
			trade:       newTradePending(t),
			actor:       initiatorAddr,
			items:       items,
			expectedErr: domain.ErrTradeIllegalTransition,
		},
		{
			name:        "side_over_capacity",
			trade:       newTradeDraft(t),
			actor:       initiatorAddr,
			items:       newOverCapacityItems(domain.SideInitiator),
			expectedErr: domain.ErrTradeInvalidItems,
		},
		{
			name:        "asset_repeated_on_side",
			trade:       newTradeDraft(t),
			actor:       initiatorAddr,
			items:       append([]domain.TradeItem{items[0]}, items[0]),
			expectedErr: domain.ErrTradeInvalidItems,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.trade.Submit(tt.actor, tt.items)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}

func TestTradeAccept(t *testing.T) {
	t.Run("pending_accepted_by_counterparty", func(t *testing.T) {
		trade := newTradePending(t)

		err := trade.Accept(counterpartyAddr)
		require.NoError(t, err)
		require.True(t, trade.IsAgreed())
		require.Greater(t, trade.AgreedAt, int64(0))
		require.Len(t, trade.History, 2)
	})

	t.Run("countered_accepted_by_next_actor", func(t *testing.T) {
		trade := newTradeCountered(t)
		require.Equal(t, initiatorAddr, trade.NextActor())

		err := trade.Accept(initiatorAddr)
		require.NoError(t, err)
		require.True(t, trade.IsAgreed())
	})
}

func TestFailingTradeAccept(t *testing.T) {
	tests := []struct {
		name        string
		trade       *domain.Trade
		actor       string
		expectedErr error
	}{
		{
			name:        "initiator_cannot_accept_own_offer",
			trade:       newTradePending(t),
			actor:       initiatorAddr,
			expectedErr: domain.ErrTradeUnauthorizedActor,
		},
		{
			name:        "last_actor_cannot_accept_own_counter",
			trade:       newTradeCountered(t),
			actor:       counterpartyAddr,
			expectedErr: domain.ErrTradeUnauthorizedActor,
		},
		{
			name:        "draft_not_acceptable",
			trade:       newTradeDraft(t),
			actor:       counterpartyAddr,
			expectedErr: domain.ErrTradeIllegalTransition,
		},
		{
			name:        "agreed_not_acceptable_twice",
			trade:       newTradeAgreed(t),
			actor:       counterpartyAddr,
			expectedErr: domain.ErrTradeIllegalTransition,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.trade.Accept(tt.actor)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}

func TestTradeCounter(t *testing.T) {
	trade := newTradePending(t)

	// Ping-pong of counter offers. The entitled actor alternates while side
	// labels stay fixed.
	actors := []string{counterpartyAddr, initiatorAddr, counterpartyAddr}
	for i, actor := range actors {
		items := []domain.TradeItem{
			newTradeItem(domain.SideInitiator, "2"),
			newTradeItem(domain.SideCounterparty, "4"),
		}
		require.NoError(t, trade.Counter(actor, items))
		require.True(t, trade.IsCountered())
		require.Equal(t, 50, trade.FairnessScore)
		require.Len(t, trade.History, 2+i)
	}
	require.Equal(t, initiatorAddr, trade.NextActor())

	// The ledger entry of a counter snapshots the revised offer.
	last := trade.History[len(trade.History)-1]
	require.Equal(t, domain.TradeActionCounter, last.Action)
	require.Len(t, last.ItemsSnapshot, 2)
	require.True(t, last.ItemsSnapshot[1].StagedValue.Equal(decimal.NewFromInt(4)))
}

func TestFailingTradeCounter(t *testing.T) {
	items := []domain.TradeItem{newTradeItem(domain.SideInitiator, "1")}

	tests := []struct {
		name        string
		trade       *domain.Trade
		actor       string
		items       []domain.TradeItem
		expectedErr error
	}{
		{
			name:        "initiator_cannot_counter_own_offer",
			trade:       newTradePending(t),
			actor:       initiatorAddr,
			items:       items,
			expectedErr: domain.ErrTradeUnauthorizedActor,
		},
		{
			name:        "last_actor_cannot_counter_twice",
			trade:       newTradeCountered(t),
			actor:       counterpartyAddr,
			items:       items,
			expectedErr: domain.ErrTradeUnauthorizedActor,
		},
		{
			name:        "empty_counter_offer",
			trade:       newTradePending(t),
			actor:       counterpartyAddr,
			items:       nil,
			expectedErr: domain.ErrTradeEmptyOffer,
		},
		{
			name:        "side_over_capacity",
			trade:       newTradePending(t),
			actor:       counterpartyAddr,
			items:       newOverCapacityItems(domain.SideCounterparty),
			expectedErr: domain.ErrTradeInvalidItems,
		},
		{
			name:        "asset_repeated_on_side",
			trade:       newTradePending(t),
			actor:       counterpartyAddr,
			items:       append([]domain.TradeItem{items[0]}, items[0]),
			expectedErr: domain.ErrTradeInvalidItems,
		},
		{
			name:        "agreed_not_counterable",
			trade:       newTradeAgreed(t),
			actor:       initiatorAddr,
			items:       items,
			expectedErr: domain.ErrTradeIllegalTransition,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.trade.Counter(tt.actor, tt.items)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}

func TestTradeReject(t *testing.T) {
	t.Run("pending_rejected_by_counterparty", func(t *testing.T) {
		trade := newTradePending(t)

		err := trade.Reject(counterpartyAddr)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusRejected, trade.Status)
		require.True(t, trade.IsTerminal())
	})

	t.Run("countered_rejected_by_either_party", func(t *testing.T) {
		for _, actor := range []string{initiatorAddr, counterpartyAddr} {
			trade := newTradeCountered(t)
			require.NoError(t, trade.Reject(actor))
			require.True(t, trade.IsTerminal())
		}
	})
}

func TestFailingTradeReject(t *testing.T) {
	trade := newTradePending(t)

	err := trade.Reject(initiatorAddr)
	require.EqualError(t, err, domain.ErrTradeUnauthorizedActor.Error())
	require.True(t, trade.IsPending())
}

func TestTradeCancel(t *testing.T) {
	for _, trade := range []*domain.Trade{newTradePending(t), newTradeCountered(t)} {
		err := trade.Cancel(initiatorAddr)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusCanceled, trade.Status)
		require.Greater(t, trade.CanceledAt, int64(0))
	}
}

func TestFailingTradeCancel(t *testing.T) {
	tests := []struct {
		name        string
		trade       *domain.Trade
		actor       string
		expectedErr error
	}{
		{
			name:        "counterparty_cannot_cancel",
			trade:       newTradePending(t),
			actor:       counterpartyAddr,
			expectedErr: domain.ErrTradeUnauthorizedActor,
		},
		{
			name:        "agreed_not_cancelable",
			trade:       newTradeAgreed(t),
			actor:       initiatorAddr,
			expectedErr: domain.ErrTradeIllegalTransition,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.trade.Cancel(tt.actor)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}

func TestTradeDeployEscrow(t *testing.T) {
	trade := newTradeAgreed(t)
	escrowAddress := "0x" + randstr.Hex(20)

	err := trade.DeployEscrow(domain.SystemActor, escrowAddress)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusEscrowDeployed, trade.Status)
	require.Equal(t, escrowAddress, trade.EscrowAddress)
}

func TestFailingTradeDeployEscrow(t *testing.T) {
	escrowAddress := "0x" + randstr.Hex(20)

	tests := []struct {
		name          string
		trade         *domain.Trade
		actor         string
		escrowAddress string
		expectedErr   error
	}{
		{
			name:          "party_cannot_deploy",
			trade:         newTradeAgreed(t),
			actor:         initiatorAddr,
			escrowAddress: escrowAddress,
			expectedErr:   domain.ErrTradeUnauthorizedActor,
		},
		{
			name:          "missing_escrow_address",
			trade:         newTradeAgreed(t),
			actor:         domain.SystemActor,
			escrowAddress: "",
			expectedErr:   domain.ErrTradeMissingEscrowAddress,
		},
		{
			name:          "pending_has_no_escrow",
			trade:         newTradePending(t),
			actor:         domain.SystemActor,
			escrowAddress: escrowAddress,
			expectedErr:   domain.ErrTradeIllegalTransition,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.trade.DeployEscrow(tt.actor, tt.escrowAddress)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}

func TestTradeDeposit(t *testing.T) {
	trade := newTradeEscrowDeployed(t)

	err := trade.Deposit(initiatorAddr)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusDeposited, trade.Status)
	require.Len(t, trade.Deposits, 1)

	err = trade.Deposit(counterpartyAddr)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusDeposited, trade.Status)
	require.Len(t, trade.Deposits, 2)
}

func TestFailingTradeDeposit(t *testing.T) {
	tests := []struct {
		name        string
		trade       *domain.Trade
		actor       string
		expectedErr error
	}{
		{
			name:        "double_deposit",
			trade:       newTradeDeposited(t),
			actor:       initiatorAddr,
			expectedErr: domain.ErrTradeAlreadyDeposited,
		},
		{
			name:        "stranger_cannot_deposit",
			trade:       newTradeEscrowDeployed(t),
			actor:       "0x" + randstr.Hex(20),
			expectedErr: domain.ErrTradeUnauthorizedActor,
		},
		{
			name:        "no_escrow_deployed_yet",
			trade:       newTradeAgreed(t),
			actor:       initiatorAddr,
			expectedErr: domain.ErrTradeIllegalTransition,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.trade.Deposit(tt.actor)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}

func TestTradeFinalize(t *testing.T) {
	trade := newTradeDeposited(t)
	require.NoError(t, trade.Deposit(counterpartyAddr))

	err := trade.Finalize(domain.SystemActor)
	require.NoError(t, err)
	require.True(t, trade.IsFinalized())
	require.True(t, trade.IsTerminal())
	require.Greater(t, trade.FinalizedAt, int64(0))
}

func TestFailingTradeFinalize(t *testing.T) {
	t.Run("missing_deposit", func(t *testing.T) {
		trade := newTradeDeposited(t)

		err := trade.Finalize(domain.SystemActor)
		require.EqualError(t, err, domain.ErrTradeDepositsMissing.Error())
	})

	t.Run("party_cannot_finalize", func(t *testing.T) {
		trade := newTradeDeposited(t)
		require.NoError(t, trade.Deposit(counterpartyAddr))

		err := trade.Finalize(initiatorAddr)
		require.EqualError(t, err, domain.ErrTradeUnauthorizedActor.Error())
	})
}

func TestTerminalTradeRejectsAllActions(t *testing.T) {
	rejected := newTradePending(t)
	require.NoError(t, rejected.Reject(counterpartyAddr))

	canceled := newTradePending(t)
	require.NoError(t, canceled.Cancel(initiatorAddr))

	finalized := newTradeDeposited(t)
	require.NoError(t, finalized.Deposit(counterpartyAddr))
	require.NoError(t, finalized.Finalize(domain.SystemActor))

	items := []domain.TradeItem{newTradeItem(domain.SideInitiator, "1")}

	for _, trade := range []*domain.Trade{rejected, canceled, finalized} {
		historyLen := len(trade.History)

		require.EqualError(t, trade.Submit(initiatorAddr, items), domain.ErrTradeTerminalState.Error())
		require.EqualError(t, trade.Accept(counterpartyAddr), domain.ErrTradeTerminalState.Error())
		require.EqualError(t, trade.Counter(counterpartyAddr, items), domain.ErrTradeTerminalState.Error())
		require.EqualError(t, trade.Reject(counterpartyAddr), domain.ErrTradeTerminalState.Error())
		require.EqualError(t, trade.Cancel(initiatorAddr), domain.ErrTradeTerminalState.Error())
		require.EqualError(t, trade.DeployEscrow(domain.SystemActor, "0xdead"), domain.ErrTradeTerminalState.Error())
		require.EqualError(t, trade.Deposit(initiatorAddr), domain.ErrTradeTerminalState.Error())
		require.EqualError(t, trade.Finalize(domain.SystemActor), domain.ErrTradeTerminalState.Error())

		// Failed attempts never leave a ledger entry behind.
		require.Len(t, trade.History, historyLen)
	}
}

func TestHistoryLedgerChains(t *testing.T) {
	trade := newTradeDeposited(t)
	require.NoError(t, trade.Deposit(counterpartyAddr))
	require.NoError(t, trade.Finalize(domain.SystemActor))

	require.Equal(t, domain.TradeStatusDraft, trade.History[0].PreviousStatus)
	for i := 1; i < len(trade.History); i++ {
		require.Equal(
			t, trade.History[i-1].NewStatus, trade.History[i].PreviousStatus,
		)
	}
	require.Equal(
		t, trade.Status, trade.History[len(trade.History)-1].NewStatus,
	)
}

func TestNegotiationRound(t *testing.T) {
	trade := newTradeDraft(t)

	items := []domain.TradeItem{
		newTradeItem(domain.SideInitiator, "3"),
		newTradeItem(domain.SideInitiator, "2"),
		newTradeItem(domain.SideCounterparty, "5"),
	}
	require.NoError(t, trade.Submit(initiatorAddr, items))
	require.Equal(t, 100, trade.FairnessScore)

	counterItems := []domain.TradeItem{
		items[0], items[1],
		newTradeItem(domain.SideCounterparty, "4"),
	}
	require.NoError(t, trade.Counter(counterpartyAddr, counterItems))
	require.Equal(t, 80, trade.FairnessScore)

	// The counterparty just acted, the ball is in the initiator's court.
	err := trade.Accept(counterpartyAddr)
	require.EqualError(t, err, domain.ErrTradeUnauthorizedActor.Error())

	require.NoError(t, trade.Accept(initiatorAddr))
	require.True(t, trade.IsAgreed())
	require.Len(t, trade.History, 3)
}

func randomAsset(value string) domain.AssetRef {
	v, _ := decimal.NewFromString(value)
	return domain.AssetRef{
		ID:            uuid.New().String(),
		DisplayName:   "asset " + randstr.Hex(4),
		ImageRef:      "ipfs://" + randstr.Hex(16),
		AssessedValue: v,
		RarityTag:     "rare",
	}
}

func newTradeItem(side domain.Side, value string) domain.TradeItem {
	asset := randomAsset(value)
	return domain.TradeItem{
		Asset:       asset,
		Side:        side,
		StagedValue: asset.AssessedValue,
	}
}

func newOverCapacityItems(side domain.Side) []domain.TradeItem {
	items := make([]domain.TradeItem, 0, domain.BoardCapacity+1)
	for i := 0; i <= domain.BoardCapacity; i++ {
		items = append(items, newTradeItem(side, "1"))
	}
	return items
}

func newTradeDraft(t *testing.T) *domain.Trade {
	trade, err := domain.NewTrade(initiatorAddr, counterpartyAddr)
	require.NoError(t, err)
	return trade
}

func newTradePending(t *testing.T) *domain.Trade {
	trade := newTradeDraft(t)
	items := []domain.TradeItem{
		newTradeItem(domain.SideInitiator, "3"),
		newTradeItem(domain.SideCounterparty, "3"),
	}
	require.NoError(t, trade.Submit(initiatorAddr, items))
	return trade
}

func newTradeCountered(t *testing.T) *domain.Trade {
	trade := newTradePending(t)
	items := []domain.TradeItem{
		newTradeItem(domain.SideInitiator, "3"),
		newTradeItem(domain.SideCounterparty, "4"),
	}
	require.NoError(t, trade.Counter(counterpartyAddr, items))
	return trade
}

func newTradeAgreed(t *testing.T) *domain.Trade {
	trade := newTradePending(t)
	require.NoError(t, trade.Accept(counterpartyAddr))
	return trade
}

func newTradeEscrowDeployed(t *testing.T) *domain.Trade {
	trade := newTradeAgreed(t)
	require.NoError(t, trade.DeployEscrow(domain.SystemActor, "0x"+randstr.Hex(20)))
	return trade
}

func newTradeDeposited(t *testing.T) *domain.Trade {
	trade := newTradeEscrowDeployed(t)
	require.NoError(t, trade.Deposit(initiatorAddr))
	return trade
}
