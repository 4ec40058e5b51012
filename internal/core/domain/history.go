package domain

// LiveCursor is the navigator position representing the live trade state
// rather than a specific ledger entry.
const LiveCursor = -1

// HistoryNavigator is a read-only cursor over a trade's history ledger. The
// cursor counts steps back in time: position 0 is the most recent ledger
// entry, position len-1 the oldest, and LiveCursor the live state.
// Navigation never triggers a transition and never mutates the ledger.
type HistoryNavigator struct {
	trade  *Trade
	cursor int
}

// NewHistoryNavigator returns a navigator over the given trade positioned
// at the live state.
func NewHistoryNavigator(trade *Trade) *HistoryNavigator {
	return &HistoryNavigator{trade: trade, cursor: LiveCursor}
}

// Cursor returns the current position.
func (n *HistoryNavigator) Cursor() int {
	return n.cursor
}

// AtLive returns whether the navigator points at the live trade state.
func (n *HistoryNavigator) AtLive() bool {
	return n.cursor == LiveCursor
}

// Back moves one entry further into the past, floored at the oldest entry.
// From the live state it moves to the most recent ledger entry.
func (n *HistoryNavigator) Back() int {
	size := len(n.trade.History)
	if size <= 0 {
		return n.cursor
	}
	if n.cursor == LiveCursor {
		n.cursor = 0
	} else if n.cursor < size-1 {
		n.cursor++
	}
	return n.cursor
}

// Forward moves one entry towards the present. From the most recent ledger
// entry it returns to the live state, where it stays.
func (n *HistoryNavigator) Forward() int {
	if n.cursor == LiveCursor {
		return n.cursor
	}
	if n.cursor == 0 {
		n.cursor = LiveCursor
	} else {
		n.cursor--
	}
	return n.cursor
}

// Reset returns the navigator to the live state.
func (n *HistoryNavigator) Reset() {
	n.cursor = LiveCursor
}

// Entry returns the ledger entry under the cursor, or nil at the live state.
func (n *HistoryNavigator) Entry() *HistoryEntry {
	if n.cursor == LiveCursor {
		return nil
	}
	entry := n.trade.History[len(n.trade.History)-1-n.cursor]
	return &entry
}

// Boards materializes the two per-side boards for the current position: the
// live items at LiveCursor, otherwise the snapshot of the entry under the
// cursor rehydrated with synthetic keys.
func (n *HistoryNavigator) Boards() (*Board, *Board) {
	if entry := n.Entry(); entry != nil {
		return BoardsFromItems(entry.ItemsSnapshot, true)
	}
	return BoardsFromItems(n.trade.Items, false)
}
