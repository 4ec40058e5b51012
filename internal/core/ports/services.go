package ports

import (
	"context"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

// TransitionRequest carries everything needed to request a state machine
// transition against the server of record. ObservedStatus and
// ObservedHistoryLen are the version of the trade the caller last saw; the
// request is rejected as stale if the trade has moved on since.
type TransitionRequest struct {
	TradeID            string
	Action             domain.TradeAction
	Actor              string
	Items              []domain.TradeItem
	Message            string
	ObservedStatus     domain.TradeStatus
	ObservedHistoryLen int
}

// TradeAPI is the contract of the trade persistence service. The negotiation
// engine depends on these operations only, not on their transport.
type TradeAPI interface {
	CreateTrade(
		ctx context.Context,
		initiator, counterparty string,
		items []domain.TradeItem, message string,
	) (*domain.Trade, error)
	GetTrade(ctx context.Context, tradeID string) (*domain.Trade, error)
	Transition(ctx context.Context, req TransitionRequest) (*domain.Trade, error)
}

// AssetInventory returns the set of assets an address currently owns and can
// stage. Seeding the available pool from it is the caller's concern.
type AssetInventory interface {
	OwnedAssets(ctx context.Context, address string) ([]domain.AssetRef, error)
}

// EscrowExecutor deploys the escrow contract for an agreed trade and returns
// its address. Actual on-chain execution lives behind this port.
type EscrowExecutor interface {
	Deploy(ctx context.Context, trade *domain.Trade) (string, error)
}

// DraftStore persists a party's staged board as a draft between sessions.
type DraftStore interface {
	SaveDraft(ctx context.Context, ownerAddress string, items []domain.TradeItem) error
}
