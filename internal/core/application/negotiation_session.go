package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
)

// NegotiationSession is the per-viewer orchestrator binding one trade to the
// viewer's two staging boards and a history navigator. It is single-threaded
// by design: one session per client, no internal locking. The acting address
// is fixed at construction and passed explicitly into every transition, the
// session never reads identity from ambient state.
type NegotiationSession struct {
	ownAddress   string
	counterparty string

	api    ports.TradeAPI
	drafts *DraftSaver

	ownBoard   *domain.Board
	otherBoard *domain.Board
	nav        *domain.HistoryNavigator

	trade       *domain.Trade
	lastFetched time.Time
}

// NewNegotiationSession returns a fresh session for the given viewer. The
// draft saver is optional; without one, board edits are not autosaved.
func NewNegotiationSession(
	ownAddress string, api ports.TradeAPI, drafts *DraftSaver,
) (*NegotiationSession, error) {
	if len(ownAddress) <= 0 {
		return nil, fmt.Errorf("missing own address")
	}
	if api == nil {
		return nil, fmt.Errorf("missing trade API")
	}

	return &NegotiationSession{
		ownAddress: ownAddress,
		api:        api,
		drafts:     drafts,
		ownBoard:   domain.NewBoard(domain.SideInitiator),
		otherBoard: domain.NewBoard(domain.SideCounterparty),
	}, nil
}

// SetCounterparty sets the recipient of a trade that has not been submitted
// yet. It has no effect once a trade is loaded.
func (s *NegotiationSession) SetCounterparty(address string) {
	if s.trade == nil {
		s.counterparty = address
	}
}

// OwnAddress returns the viewer's wallet address.
func (s *NegotiationSession) OwnAddress() string {
	return s.ownAddress
}

// ActiveTradeID returns the id of the loaded trade, empty for a fresh draft.
func (s *NegotiationSession) ActiveTradeID() string {
	if s.trade == nil {
		return ""
	}
	return s.trade.Id
}

// LastFetched returns when the loaded trade was last refreshed. The polling
// cadence is the caller's decision, the session never refetches on its own.
func (s *NegotiationSession) LastFetched() time.Time {
	return s.lastFetched
}

// StageOwn stages an asset on the viewer's board. Editing is rejected while
// the navigator is replaying history.
func (s *NegotiationSession) StageOwn(asset domain.AssetRef) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if err := s.ownBoard.Stage(asset); err != nil {
		return err
	}
	s.scheduleAutosave()
	return nil
}

// UnstageOwn removes an asset from the viewer's board and returns it.
func (s *NegotiationSession) UnstageOwn(assetID string) (domain.AssetRef, error) {
	if err := s.checkEditable(); err != nil {
		return domain.AssetRef{}, err
	}
	asset, err := s.ownBoard.Unstage(assetID)
	if err != nil {
		return domain.AssetRef{}, err
	}
	s.scheduleAutosave()
	return asset, nil
}

// Boards returns the initiator-side and counterparty-side boards for the
// current navigator position.
func (s *NegotiationSession) Boards() (*domain.Board, *domain.Board) {
	if s.nav != nil && !s.nav.AtLive() {
		return s.nav.Boards()
	}
	if s.ownSide() == domain.SideInitiator {
		return s.ownBoard, s.otherBoard
	}
	return s.otherBoard, s.ownBoard
}

// SubmitOrCounter turns the staged boards into the next state machine
// transition: an initial submission when no trade is loaded, a counter offer
// otherwise. On success both boards are cleared and the navigator returns to
// the live state. A stale counter is dropped and the latest trade refetched.
func (s *NegotiationSession) SubmitOrCounter(
	ctx context.Context, message string,
) (*domain.Trade, error) {
	if s.nav != nil && !s.nav.AtLive() {
		return nil, ErrSessionReadOnlyHistory
	}

	items := append(s.ownBoard.TradeItems(), s.otherBoard.TradeItems()...)

	if s.trade == nil {
		if len(s.counterparty) <= 0 {
			return nil, ErrSessionMissingCounterparty
		}
		trade, err := s.api.CreateTrade(
			ctx, s.ownAddress, s.counterparty, items, message,
		)
		if err != nil {
			return nil, err
		}
		s.afterTransition(trade)
		return trade, nil
	}

	trade, err := s.transition(ctx, domain.TradeActionCounter, items, message)
	if err != nil {
		return nil, err
	}
	s.afterTransition(trade)
	return trade, nil
}

// Accept agrees to the counterparty's latest offer.
func (s *NegotiationSession) Accept(ctx context.Context) (*domain.Trade, error) {
	return s.act(ctx, domain.TradeActionAccept)
}

// Reject declines the negotiation for good.
func (s *NegotiationSession) Reject(ctx context.Context) (*domain.Trade, error) {
	return s.act(ctx, domain.TradeActionReject)
}

// Cancel withdraws the offer. Only meaningful for the initiator.
func (s *NegotiationSession) Cancel(ctx context.Context) (*domain.Trade, error) {
	return s.act(ctx, domain.TradeActionCancel)
}

// Deposit records the viewer's deposit into the deployed escrow.
func (s *NegotiationSession) Deposit(ctx context.Context) (*domain.Trade, error) {
	return s.act(ctx, domain.TradeActionDeposit)
}

// LoadFrom seeds the session from a fetched trade: boards are split from the
// live items by side relative to the viewer, and subsequent submits are
// treated as counters against this trade.
func (s *NegotiationSession) LoadFrom(trade *domain.Trade) error {
	side, ok := trade.SideOf(s.ownAddress)
	if !ok {
		return domain.ErrTradeUnauthorizedActor
	}

	initiatorBoard, counterpartyBoard := domain.BoardsFromItems(trade.Items, false)
	if side == domain.SideInitiator {
		s.ownBoard, s.otherBoard = initiatorBoard, counterpartyBoard
		s.counterparty = trade.CounterpartyAddress
	} else {
		s.ownBoard, s.otherBoard = counterpartyBoard, initiatorBoard
		s.counterparty = trade.InitiatorAddress
	}

	s.trade = trade
	s.nav = domain.NewHistoryNavigator(trade)
	s.lastFetched = time.Now()
	return nil
}

// Refresh refetches the loaded trade and re-seeds the session from it.
func (s *NegotiationSession) Refresh(ctx context.Context) (*domain.Trade, error) {
	if s.trade == nil {
		return nil, ErrSessionNoActiveTrade
	}

	trade, err := s.api.GetTrade(ctx, s.trade.Id)
	if err != nil {
		return nil, err
	}
	if err := s.LoadFrom(trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Back moves the history replay one transition into the past. Replaying
// suppresses board edits and any pending draft autosave.
func (s *NegotiationSession) Back() (int, error) {
	if s.nav == nil {
		return domain.LiveCursor, ErrSessionNoActiveTrade
	}
	if s.drafts != nil {
		s.drafts.Cancel()
	}
	return s.nav.Back(), nil
}

// Forward moves the history replay one transition towards the present.
func (s *NegotiationSession) Forward() (int, error) {
	if s.nav == nil {
		return domain.LiveCursor, ErrSessionNoActiveTrade
	}
	return s.nav.Forward(), nil
}

// Cursor returns the navigator position, LiveCursor when no trade is loaded.
func (s *NegotiationSession) Cursor() int {
	if s.nav == nil {
		return domain.LiveCursor
	}
	return s.nav.Cursor()
}

func (s *NegotiationSession) act(
	ctx context.Context, action domain.TradeAction,
) (*domain.Trade, error) {
	if s.trade == nil {
		return nil, ErrSessionNoActiveTrade
	}
	trade, err := s.transition(ctx, action, nil, "")
	if err != nil {
		return nil, err
	}
	s.afterTransition(trade)
	return trade, nil
}

// transition sends the request tagged with the observed trade version. When
// the server reports the trade moved on, the in-flight result is dropped and
// the latest state fetched instead of overwriting newer state.
func (s *NegotiationSession) transition(
	ctx context.Context,
	action domain.TradeAction,
	items []domain.TradeItem, message string,
) (*domain.Trade, error) {
	trade, err := s.api.Transition(ctx, ports.TransitionRequest{
		TradeID:            s.trade.Id,
		Action:             action,
		Actor:              s.ownAddress,
		Items:              items,
		Message:            message,
		ObservedStatus:     s.trade.Status,
		ObservedHistoryLen: len(s.trade.History),
	})
	if err != nil {
		if errors.Is(err, domain.ErrTradeStale) {
			log.Debugf(
				"dropping stale %s on trade %s, refetching", action, s.trade.Id,
			)
			if _, refreshErr := s.Refresh(ctx); refreshErr != nil {
				log.WithError(refreshErr).Warn("failed to refetch stale trade")
			}
		}
		return nil, err
	}
	return trade, nil
}

// afterTransition records the server's response as the new observed state
// and empties both boards so the next action starts from a clean stage.
// Boards are only re-seeded from live items on LoadFrom/Refresh.
func (s *NegotiationSession) afterTransition(trade *domain.Trade) {
	side, _ := trade.SideOf(s.ownAddress)
	s.ownBoard = domain.NewBoard(side)
	s.otherBoard = domain.NewBoard(side.Opposite())
	if side == domain.SideInitiator {
		s.counterparty = trade.CounterpartyAddress
	} else {
		s.counterparty = trade.InitiatorAddress
	}

	s.trade = trade
	s.nav = domain.NewHistoryNavigator(trade)
	s.lastFetched = time.Now()
	if s.drafts != nil {
		s.drafts.Cancel()
	}
}

func (s *NegotiationSession) checkEditable() error {
	if s.nav != nil && !s.nav.AtLive() {
		return ErrSessionReadOnlyHistory
	}
	return nil
}

func (s *NegotiationSession) scheduleAutosave() {
	if s.drafts == nil {
		return
	}
	if s.ownBoard.IsSynthetic() {
		s.drafts.Cancel()
		return
	}
	s.drafts.Schedule(s.ownBoard.TradeItems())
}

func (s *NegotiationSession) ownSide() domain.Side {
	if s.trade != nil {
		if side, ok := s.trade.SideOf(s.ownAddress); ok {
			return side
		}
	}
	return domain.SideInitiator
}
