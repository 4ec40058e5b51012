package domain

import "github.com/shopspring/decimal"

// BoardCapacity is the maximum number of items a party can stage per trade.
const BoardCapacity = 6

// BoardItem is one entry on a staging board. Key is the asset id for live
// boards, or a synthetic snapshot key for boards rehydrated from history.
type BoardItem struct {
	Key   string
	Asset AssetRef
}

// Board is the in-memory staging area of one party. It enforces the capacity
// invariant and duplicate protection at every mutation and never touches any
// backing store.
type Board struct {
	side      Side
	items     []BoardItem
	synthetic bool
}

// NewBoard returns an empty board for the given side.
func NewBoard(side Side) *Board {
	return &Board{side: side, items: make([]BoardItem, 0, BoardCapacity)}
}

// Side returns the side this board stages items for.
func (b *Board) Side() Side {
	return b.side
}

// IsSynthetic returns whether the board was rehydrated from a history
// snapshot. Synthetic boards must never be persisted as a new draft.
func (b *Board) IsSynthetic() bool {
	return b.synthetic
}

// Stage adds the asset to the board. Staging an asset that is already on the
// board is a no-op. The board is left unchanged when full.
func (b *Board) Stage(asset AssetRef) error {
	if b.Contains(asset.ID) {
		return nil
	}
	if len(b.items) >= BoardCapacity {
		return ErrBoardFull
	}
	b.items = append(b.items, BoardItem{Key: asset.ID, Asset: asset})
	return nil
}

// Unstage removes the asset identified by assetID from the board and returns
// it, making it available again.
func (b *Board) Unstage(assetID string) (AssetRef, error) {
	for i, item := range b.items {
		if item.Asset.ID == assetID {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return item.Asset, nil
		}
	}
	return AssetRef{}, ErrBoardNotStaged
}

// Clear empties the board.
func (b *Board) Clear() {
	b.items = b.items[:0]
	b.synthetic = false
}

// Contains returns whether the asset identified by assetID is staged.
func (b *Board) Contains(assetID string) bool {
	for _, item := range b.items {
		if item.Asset.ID == assetID {
			return true
		}
	}
	return false
}

// Len returns the number of staged items.
func (b *Board) Len() int {
	return len(b.items)
}

// Items returns a copy of the staged items in staging order.
func (b *Board) Items() []BoardItem {
	items := make([]BoardItem, len(b.items))
	copy(items, b.items)
	return items
}

// TotalValue returns the sum of the assessed values of all staged items,
// zero for an empty board.
func (b *Board) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.items {
		total = total.Add(item.Asset.AssessedValue)
	}
	return total
}

// TradeItems converts the staged contents into trade items ready for a
// submit or counter transition.
func (b *Board) TradeItems() []TradeItem {
	items := make([]TradeItem, 0, len(b.items))
	for _, item := range b.items {
		items = append(items, TradeItem{
			Asset:       item.Asset,
			Side:        b.side,
			StagedValue: item.Asset.AssessedValue,
		})
	}
	return items
}

// BoardsFromItems splits a flat item collection into the two per-side boards.
// When synthetic is true the items come from a history snapshot and each
// entry gets a derived key so that repeated occurrences of the same asset
// never collide across the available pool and the staged set.
func BoardsFromItems(items []TradeItem, synthetic bool) (*Board, *Board) {
	initiator := NewBoard(SideInitiator)
	counterparty := NewBoard(SideCounterparty)
	initiator.synthetic = synthetic
	counterparty.synthetic = synthetic

	for _, item := range items {
		board := initiator
		if item.Side == SideCounterparty {
			board = counterparty
		}
		key := item.Asset.ID
		if synthetic {
			key = SnapshotKey(item.Side, item.Asset.ID, board.Len())
		}
		board.items = append(board.items, BoardItem{Key: key, Asset: item.Asset})
	}
	return initiator, counterparty
}
