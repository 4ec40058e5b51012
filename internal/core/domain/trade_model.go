package domain

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus represents the different statuses of the negotiation lifecycle.
type TradeStatus int

const (
	TradeStatusDraft TradeStatus = iota
	TradeStatusPending
	TradeStatusCountered
	TradeStatusAgreed
	TradeStatusEscrowDeployed
	TradeStatusDeposited
	TradeStatusFinalized
	TradeStatusCanceled
	TradeStatusRejected
)

func (s TradeStatus) String() string {
	switch s {
	case TradeStatusDraft:
		return "draft"
	case TradeStatusPending:
		return "pending"
	case TradeStatusCountered:
		return "countered"
	case TradeStatusAgreed:
		return "agreed"
	case TradeStatusEscrowDeployed:
		return "escrow_deployed"
	case TradeStatusDeposited:
		return "deposited"
	case TradeStatusFinalized:
		return "finalized"
	case TradeStatusCanceled:
		return "canceled"
	case TradeStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// IsTerminal returns whether no further transition is legal from the status.
func (s TradeStatus) IsTerminal() bool {
	return s == TradeStatusFinalized ||
		s == TradeStatusCanceled ||
		s == TradeStatusRejected
}

// TradeAction identifies a state machine transition in the history ledger.
type TradeAction string

const (
	TradeActionSubmit       TradeAction = "submit"
	TradeActionAccept       TradeAction = "accept"
	TradeActionCounter      TradeAction = "counter"
	TradeActionReject       TradeAction = "reject"
	TradeActionCancel       TradeAction = "cancel"
	TradeActionDeployEscrow TradeAction = "deploy_escrow"
	TradeActionDeposit      TradeAction = "deposit"
	TradeActionFinalize     TradeAction = "finalize"
)

// SystemActor is the privileged address allowed to trigger escrow deployment
// and finalization. It is distinct from both trading parties.
const SystemActor = "system"

// HistoryEntry is one record of the append-only history ledger. Entries are
// never mutated or removed once appended.
type HistoryEntry struct {
	Action         TradeAction
	PreviousStatus TradeStatus
	NewStatus      TradeStatus
	ActorAddress   string
	CreatedAt      int64
	ItemsSnapshot  []TradeItem
}

// TradeMessage is a free-text note exchanged alongside the negotiation. It
// is a side channel and never gates transitions.
type TradeMessage struct {
	FromAddress string
	Text        string
	CreatedAt   int64
}

// TradeDeposit records one party's deposit into the escrow contract.
type TradeDeposit struct {
	Address   string
	CreatedAt int64
}

// Trade is the data structure representing a barter negotiation between two
// wallet holders. It is mutated only through its transition methods.
type Trade struct {
	Id                  string
	InitiatorAddress    string
	CounterpartyAddress string
	Status              TradeStatus
	Items               []TradeItem
	FairnessScore       int
	History             []HistoryEntry
	Messages            []TradeMessage
	Deposits            []TradeDeposit
	EscrowAddress       string
	CreatedAt           int64
	UpdatedAt           int64
	AgreedAt            int64
	FinalizedAt         int64
	CanceledAt          int64
}

// NewTrade returns a trade in Draft status between the two given addresses.
func NewTrade(initiatorAddress, counterpartyAddress string) (*Trade, error) {
	if len(initiatorAddress) <= 0 || len(counterpartyAddress) <= 0 ||
		initiatorAddress == counterpartyAddress {
		return nil, ErrTradeInvalidParties
	}

	now := time.Now().Unix()
	return &Trade{
		Id:                  uuid.New().String(),
		InitiatorAddress:    initiatorAddress,
		CounterpartyAddress: counterpartyAddress,
		Status:              TradeStatusDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}
