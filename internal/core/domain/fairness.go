package domain

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// FairnessScore computes the symmetry score of the two sides' aggregate
// values as round(100 * min/max), clamped to [0, 100]. The score is 0
// whenever either side gives nothing, including the both-empty case where
// no meaningful ratio exists yet. The function is deterministic and holds
// no state, callers must recompute it on every board mutation.
func FairnessScore(a, b decimal.Decimal) int {
	if a.LessThanOrEqual(decimal.Zero) || b.LessThanOrEqual(decimal.Zero) {
		return 0
	}

	min, max := a, b
	if min.GreaterThan(max) {
		min, max = max, min
	}

	score := min.Div(max).Mul(oneHundred).Round(0).IntPart()
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// FairnessScoreForItems computes the fairness score from a flat item
// collection by aggregating the staged values per side.
func FairnessScoreForItems(items []TradeItem) int {
	return FairnessScore(
		totalValueForSide(items, SideInitiator),
		totalValueForSide(items, SideCounterparty),
	)
}
