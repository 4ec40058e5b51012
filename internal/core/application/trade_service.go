package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
)

// TradeService is the server of record for the negotiation protocol. It
// applies state machine transitions against the authoritative copy of a
// trade with optimistic concurrency checking and invokes the escrow
// executor once both parties agreed.
type TradeService struct {
	repoManager ports.RepoManager
	escrow      ports.EscrowExecutor
}

// NewTradeService returns a TradeService backed by the given repositories
// and escrow executor.
func NewTradeService(
	repoManager ports.RepoManager, escrow ports.EscrowExecutor,
) (*TradeService, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if escrow == nil {
		return nil, fmt.Errorf("missing escrow executor")
	}
	return &TradeService{repoManager, escrow}, nil
}

// CreateTrade creates a new trade between the two parties and immediately
// submits the initiator's first offer, bringing it to Pending.
func (s *TradeService) CreateTrade(
	ctx context.Context,
	initiator, counterparty string,
	items []domain.TradeItem, message string,
) (*domain.Trade, error) {
	trade, err := domain.NewTrade(initiator, counterparty)
	if err != nil {
		return nil, err
	}

	trade.AddMessage(initiator, message)
	if err := trade.Submit(initiator, items); err != nil {
		return nil, err
	}

	if err := s.repoManager.TradeRepository().AddTrade(ctx, trade); err != nil {
		log.WithError(err).Warn("failed to persist new trade")
		return nil, ErrServiceUnavailable
	}

	log.Debugf(
		"created trade %s between %s and %s (fairness %d)",
		trade.Id, initiator, counterparty, trade.FairnessScore,
	)
	return trade, nil
}

// GetTrade returns the trade with the given id.
func (s *TradeService) GetTrade(
	ctx context.Context, tradeID string,
) (*domain.Trade, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeID)
	if err != nil {
		log.WithError(err).Warnf("failed to fetch trade %s", tradeID)
		return nil, ErrServiceUnavailable
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	return trade, nil
}

// ListTradesForParty returns all trades the given address takes part in.
func (s *TradeService) ListTradesForParty(
	ctx context.Context, address string,
) ([]*domain.Trade, error) {
	trades, err := s.repoManager.TradeRepository().GetTradesByParty(ctx, address)
	if err != nil {
		log.WithError(err).Warnf("failed to list trades for %s", address)
		return nil, ErrServiceUnavailable
	}
	return trades, nil
}

// Transition requests a state machine transition. The request carries the
// status and history length the caller last observed; if the stored trade
// has moved on since, the request fails with ErrTradeStale and nothing is
// applied. The status change and the ledger append land in one atomic
// repository update.
func (s *TradeService) Transition(
	ctx context.Context, req ports.TransitionRequest,
) (*domain.Trade, error) {
	var updated *domain.Trade

	err := s.repoManager.TradeRepository().UpdateTrade(
		ctx, req.TradeID, func(t *domain.Trade) (*domain.Trade, error) {
			if t.Status != req.ObservedStatus ||
				len(t.History) != req.ObservedHistoryLen {
				return nil, domain.ErrTradeStale
			}

			if err := s.applyAction(t, req); err != nil {
				return nil, err
			}
			t.AddMessage(req.Actor, req.Message)

			updated = t
			return t, nil
		},
	)
	if err != nil {
		return nil, err
	}

	log.Debugf(
		"trade %s: %s by %s -> %s (history %d)",
		updated.Id, req.Action, req.Actor, updated.Status, len(updated.History),
	)

	if updated.IsAgreed() {
		return s.deployEscrow(ctx, updated)
	}
	return updated, nil
}

func (s *TradeService) applyAction(
	t *domain.Trade, req ports.TransitionRequest,
) error {
	switch req.Action {
	case domain.TradeActionAccept:
		return t.Accept(req.Actor)
	case domain.TradeActionCounter:
		return t.Counter(req.Actor, req.Items)
	case domain.TradeActionReject:
		return t.Reject(req.Actor)
	case domain.TradeActionCancel:
		return t.Cancel(req.Actor)
	case domain.TradeActionDeposit:
		return t.Deposit(req.Actor)
	case domain.TradeActionFinalize:
		return t.Finalize(req.Actor)
	default:
		// submit goes through CreateTrade, deploy_escrow is system-internal.
		return domain.ErrTradeIllegalTransition
	}
}

// deployEscrow asks the executor for an escrow contract and records the
// result as the deploy_escrow transition by the system actor. A failing
// deployment leaves the trade in Agreed so the operator can retry.
func (s *TradeService) deployEscrow(
	ctx context.Context, trade *domain.Trade,
) (*domain.Trade, error) {
	escrowAddress, err := s.escrow.Deploy(ctx, trade)
	if err != nil {
		log.WithError(err).Warnf("failed to deploy escrow for trade %s", trade.Id)
		return trade, nil
	}

	var updated *domain.Trade
	if err := s.repoManager.TradeRepository().UpdateTrade(
		ctx, trade.Id, func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.DeployEscrow(domain.SystemActor, escrowAddress); err != nil {
				return nil, err
			}
			updated = t
			return t, nil
		},
	); err != nil {
		log.WithError(err).Warnf("failed to record escrow for trade %s", trade.Id)
		return trade, nil
	}

	log.Debugf("deployed escrow %s for trade %s", escrowAddress, trade.Id)
	return updated, nil
}
