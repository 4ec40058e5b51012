package application

import "errors"

var (
	// ErrTradeNotFound ...
	ErrTradeNotFound = errors.New("trade not found")
	// ErrSessionReadOnlyHistory is returned when editing a board while the
	// navigator is replaying history instead of pointing at the live state.
	ErrSessionReadOnlyHistory = errors.New("board is read-only while replaying history")
	// ErrSessionNoActiveTrade is returned by session operations that require
	// a loaded trade.
	ErrSessionNoActiveTrade = errors.New("no active trade loaded in the session")
	// ErrSessionMissingCounterparty is returned when submitting a new trade
	// without having set the counterparty address.
	ErrSessionMissingCounterparty = errors.New("counterparty address must be set before submitting")
	// ErrServiceUnavailable is returned by the trade service in case of
	// internal errors.
	ErrServiceUnavailable = errors.New("service is unavailable, try again later")
)
