package domain

import "errors"

var (
	// ErrTradeInvalidParties is thrown when creating a trade without two distinct party addresses.
	ErrTradeInvalidParties = errors.New("trade requires two distinct party addresses")
	// ErrTradeIllegalTransition is thrown when the trade status does not permit the requested action.
	ErrTradeIllegalTransition = errors.New("trade status does not permit this action")
	// ErrTradeTerminalState is thrown on any action attempted against a finalized, canceled or rejected trade.
	ErrTradeTerminalState = errors.New("trade is in a terminal state")
	// ErrTradeUnauthorizedActor is thrown when the acting address is not entitled to perform the transition.
	ErrTradeUnauthorizedActor = errors.New("actor is not authorized for this transition")
	// ErrTradeEmptyOffer is thrown on submit/counter with zero items staged on both sides.
	ErrTradeEmptyOffer = errors.New("offer must stage at least one item")
	// ErrTradeInvalidItems is thrown on submit/counter when a side stages more items than the board capacity or the same asset more than once.
	ErrTradeInvalidItems = errors.New("offer may stage an asset once per side, up to the board capacity")
	// ErrTradeMissingEscrowAddress ...
	ErrTradeMissingEscrowAddress = errors.New("escrow address must not be null")
	// ErrTradeAlreadyDeposited is thrown when a party attempts a second deposit on the same escrow.
	ErrTradeAlreadyDeposited = errors.New("party has already deposited")
	// ErrTradeDepositsMissing is thrown when finalizing before both parties have deposited.
	ErrTradeDepositsMissing = errors.New("both parties must deposit before finalizing")
	// ErrTradeStale is thrown when a transition request observed an outdated version of the trade.
	ErrTradeStale = errors.New("trade has moved on since last observed, refetch and retry")
	// ErrBoardFull ...
	ErrBoardFull = errors.New("board already holds the maximum number of staged items")
	// ErrBoardNotStaged is thrown when unstaging an asset that is not on the board.
	ErrBoardNotStaged = errors.New("asset is not staged on the board")
	// ErrInvalidSnapshotKey is thrown when decoding a malformed history snapshot key.
	ErrInvalidSnapshotKey = errors.New("snapshot key is not in <side>-<assetId>-<index> form")
)
