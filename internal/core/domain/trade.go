package domain

import "time"

// Submit brings the trade from Draft to Pending with the initiator's first
// offer. Only the initiator may submit.
func (t *Trade) Submit(actor string, items []TradeItem) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if t.Status != TradeStatusDraft {
		return ErrTradeIllegalTransition
	}
	if actor != t.InitiatorAddress {
		return ErrTradeUnauthorizedActor
	}
	if err := validateOffer(items); err != nil {
		return err
	}

	t.Items = copyItems(items)
	t.FairnessScore = FairnessScoreForItems(t.Items)
	t.transition(TradeActionSubmit, actor, TradeStatusPending)
	return nil
}

// Accept brings the trade from Pending or Countered to Agreed. From Pending
// only the counterparty may accept; from Countered only the party that did
// not perform the most recent transition.
func (t *Trade) Accept(actor string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}

	switch t.Status {
	case TradeStatusPending:
		if actor != t.CounterpartyAddress {
			return ErrTradeUnauthorizedActor
		}
	case TradeStatusCountered:
		if actor != t.NextActor() {
			return ErrTradeUnauthorizedActor
		}
	default:
		return ErrTradeIllegalTransition
	}

	t.transition(TradeActionAccept, actor, TradeStatusAgreed)
	t.AgreedAt = t.UpdatedAt
	return nil
}

// Counter replaces the staged items with a revised offer and brings the
// trade to Countered. The transition is re-entrant: from Countered, the
// party that did not act last may counter again and the history keeps
// growing. Side labels never swap, only who is entitled to act next.
func (t *Trade) Counter(actor string, items []TradeItem) error {
	if err := t.checkAlive(); err != nil {
		return err
	}

	switch t.Status {
	case TradeStatusPending:
		if actor != t.CounterpartyAddress {
			return ErrTradeUnauthorizedActor
		}
	case TradeStatusCountered:
		if actor != t.NextActor() {
			return ErrTradeUnauthorizedActor
		}
	default:
		return ErrTradeIllegalTransition
	}
	if err := validateOffer(items); err != nil {
		return err
	}

	t.Items = copyItems(items)
	t.FairnessScore = FairnessScoreForItems(t.Items)
	t.transition(TradeActionCounter, actor, TradeStatusCountered)
	return nil
}

// Reject brings the trade from Pending or Countered to the terminal Rejected
// status. From Pending only the counterparty may reject; from Countered
// either party.
func (t *Trade) Reject(actor string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}

	switch t.Status {
	case TradeStatusPending:
		if actor != t.CounterpartyAddress {
			return ErrTradeUnauthorizedActor
		}
	case TradeStatusCountered:
		if !t.IsParty(actor) {
			return ErrTradeUnauthorizedActor
		}
	default:
		return ErrTradeIllegalTransition
	}

	t.transition(TradeActionReject, actor, TradeStatusRejected)
	return nil
}

// Cancel brings the trade from Pending or Countered to the terminal Canceled
// status. Only the initiator may cancel.
func (t *Trade) Cancel(actor string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if t.Status != TradeStatusPending && t.Status != TradeStatusCountered {
		return ErrTradeIllegalTransition
	}
	if actor != t.InitiatorAddress {
		return ErrTradeUnauthorizedActor
	}

	t.transition(TradeActionCancel, actor, TradeStatusCanceled)
	t.CanceledAt = t.UpdatedAt
	return nil
}

// DeployEscrow records the deployed escrow contract and brings the trade
// from Agreed to EscrowDeployed. Only the system actor may deploy.
func (t *Trade) DeployEscrow(actor, escrowAddress string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if t.Status != TradeStatusAgreed {
		return ErrTradeIllegalTransition
	}
	if actor != SystemActor {
		return ErrTradeUnauthorizedActor
	}
	if len(escrowAddress) <= 0 {
		return ErrTradeMissingEscrowAddress
	}

	t.EscrowAddress = escrowAddress
	t.transition(TradeActionDeployEscrow, actor, TradeStatusEscrowDeployed)
	return nil
}

// Deposit records a party's deposit into the escrow. The first deposit
// brings the trade from EscrowDeployed to Deposited, the second one is
// re-entrant. Each party may deposit once.
func (t *Trade) Deposit(actor string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if t.Status != TradeStatusEscrowDeployed && t.Status != TradeStatusDeposited {
		return ErrTradeIllegalTransition
	}
	if !t.IsParty(actor) {
		return ErrTradeUnauthorizedActor
	}
	if t.hasDeposited(actor) {
		return ErrTradeAlreadyDeposited
	}

	t.transition(TradeActionDeposit, actor, TradeStatusDeposited)
	t.Deposits = append(t.Deposits, TradeDeposit{
		Address:   actor,
		CreatedAt: t.UpdatedAt,
	})
	return nil
}

// Finalize brings the trade from Deposited to the terminal Finalized status
// once both parties have deposited. Only the system actor may finalize.
func (t *Trade) Finalize(actor string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if t.Status != TradeStatusDeposited {
		return ErrTradeIllegalTransition
	}
	if actor != SystemActor {
		return ErrTradeUnauthorizedActor
	}
	if !t.hasDeposited(t.InitiatorAddress) || !t.hasDeposited(t.CounterpartyAddress) {
		return ErrTradeDepositsMissing
	}

	t.transition(TradeActionFinalize, actor, TradeStatusFinalized)
	t.FinalizedAt = t.UpdatedAt
	return nil
}

// AddMessage appends a free-text note to the trade. Messages are a side
// channel and never gate transitions.
func (t *Trade) AddMessage(from, text string) {
	if len(text) <= 0 {
		return
	}
	t.Messages = append(t.Messages, TradeMessage{
		FromAddress: from,
		Text:        text,
		CreatedAt:   time.Now().Unix(),
	})
}

// NextActor returns the party entitled to act next on an open negotiation,
// computed as the party that did not perform the most recent transition.
func (t *Trade) NextActor() string {
	if len(t.History) <= 0 {
		return t.InitiatorAddress
	}
	if t.History[len(t.History)-1].ActorAddress == t.InitiatorAddress {
		return t.CounterpartyAddress
	}
	return t.InitiatorAddress
}

// SideOf returns the fixed side label of the given party address.
func (t *Trade) SideOf(address string) (Side, bool) {
	switch address {
	case t.InitiatorAddress:
		return SideInitiator, true
	case t.CounterpartyAddress:
		return SideCounterparty, true
	default:
		return 0, false
	}
}

// IsParty returns whether the address is one of the two trading parties.
func (t *Trade) IsParty(address string) bool {
	_, ok := t.SideOf(address)
	return ok
}

// IsPending returns whether the trade is in Pending status.
func (t *Trade) IsPending() bool {
	return t.Status == TradeStatusPending
}

// IsCountered returns whether the trade is in Countered status.
func (t *Trade) IsCountered() bool {
	return t.Status == TradeStatusCountered
}

// IsAgreed returns whether the trade is in Agreed status.
func (t *Trade) IsAgreed() bool {
	return t.Status == TradeStatusAgreed
}

// IsFinalized returns whether the trade is in Finalized status.
func (t *Trade) IsFinalized() bool {
	return t.Status == TradeStatusFinalized
}

// IsTerminal returns whether the trade reached a terminal status.
func (t *Trade) IsTerminal() bool {
	return t.Status.IsTerminal()
}

type sideAsset struct {
	side    Side
	assetID string
}

// validateOffer enforces the board invariants on the authoritative path:
// items arrive from untrusted callers, so capacity and per-side uniqueness
// cannot be left to the client-side boards alone.
func validateOffer(items []TradeItem) error {
	if len(items) <= 0 {
		return ErrTradeEmptyOffer
	}

	perSide := map[Side]int{}
	seen := map[sideAsset]struct{}{}
	for _, item := range items {
		perSide[item.Side]++
		if perSide[item.Side] > BoardCapacity {
			return ErrTradeInvalidItems
		}

		key := sideAsset{item.Side, item.Asset.ID}
		if _, ok := seen[key]; ok {
			return ErrTradeInvalidItems
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (t *Trade) checkAlive() error {
	if t.IsTerminal() {
		return ErrTradeTerminalState
	}
	return nil
}

func (t *Trade) hasDeposited(address string) bool {
	for _, d := range t.Deposits {
		if d.Address == address {
			return true
		}
	}
	return false
}

// transition applies the status change and appends exactly one ledger entry
// snapshotting the items staged at this moment. The append and the status
// change must always land together, repositories persist the whole trade in
// a single atomic update.
func (t *Trade) transition(action TradeAction, actor string, newStatus TradeStatus) {
	now := time.Now().Unix()
	t.History = append(t.History, HistoryEntry{
		Action:         action,
		PreviousStatus: t.Status,
		NewStatus:      newStatus,
		ActorAddress:   actor,
		CreatedAt:      now,
		ItemsSnapshot:  copyItems(t.Items),
	})
	t.Status = newStatus
	t.UpdatedAt = now
}
