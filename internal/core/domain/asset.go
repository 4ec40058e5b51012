package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Side identifies which party of the trade an item belongs to. Sides are
// fixed to the original creator/recipient of the trade and never swap,
// no matter how many counter offers are exchanged.
type Side int

const (
	SideInitiator Side = iota
	SideCounterparty
)

func (s Side) String() string {
	switch s {
	case SideInitiator:
		return "initiator"
	case SideCounterparty:
		return "counterparty"
	default:
		return "unknown"
	}
}

// Opposite returns the other side of the trade.
func (s Side) Opposite() Side {
	if s == SideInitiator {
		return SideCounterparty
	}
	return SideInitiator
}

// SideFromString parses the string representation of a Side.
func SideFromString(str string) (Side, error) {
	switch str {
	case "initiator":
		return SideInitiator, nil
	case "counterparty":
		return SideCounterparty, nil
	default:
		return 0, fmt.Errorf("unknown side %q", str)
	}
}

// AssetRef is the immutable description of one tradeable item. It is a pure
// value, the engine never talks to the chain or the indexer that produced it.
type AssetRef struct {
	ID            string
	DisplayName   string
	ImageRef      string
	AssessedValue decimal.Decimal
	RarityTag     string
}

// TradeItem is one staged asset within a trade, tagged with the side that
// offered it and the value it was assessed at staging time.
type TradeItem struct {
	Asset       AssetRef
	Side        Side
	StagedValue decimal.Decimal
}

// SnapshotKey encodes the synthetic identity of an item rehydrated from a
// history snapshot. The same underlying asset may appear in several
// snapshots (eg. re-offered after being declined), so the positional index
// keeps every occurrence individually addressable. This function and
// ParseSnapshotKey are the single source of truth for the encoding.
func SnapshotKey(side Side, assetID string, index int) string {
	return fmt.Sprintf("%s-%s-%d", side, assetID, index)
}

// ParseSnapshotKey decodes a key produced by SnapshotKey. The asset id may
// itself contain dashes, so the side is split off the front and the index
// off the back.
func ParseSnapshotKey(key string) (Side, string, int, error) {
	firstDash := strings.Index(key, "-")
	lastDash := strings.LastIndex(key, "-")
	if firstDash < 0 || lastDash <= firstDash {
		return 0, "", 0, ErrInvalidSnapshotKey
	}

	side, err := SideFromString(key[:firstDash])
	if err != nil {
		return 0, "", 0, ErrInvalidSnapshotKey
	}

	index, err := strconv.Atoi(key[lastDash+1:])
	if err != nil || index < 0 {
		return 0, "", 0, ErrInvalidSnapshotKey
	}

	assetID := key[firstDash+1 : lastDash]
	if len(assetID) <= 0 {
		return 0, "", 0, ErrInvalidSnapshotKey
	}

	return side, assetID, index, nil
}

func copyItems(items []TradeItem) []TradeItem {
	if items == nil {
		return nil
	}
	list := make([]TradeItem, len(items))
	copy(list, items)
	return list
}

func totalValueForSide(items []TradeItem, side Side) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Side == side {
			total = total.Add(item.StagedValue)
		}
	}
	return total
}
