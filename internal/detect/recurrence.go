package detect

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// Recurrence is the most frequent charge amount within a merchant group and
// the transactions that carry it.
type Recurrence struct {
	Amount  decimal.Decimal
	Support []model.CanonicalTransaction
}

// FindRecurring tallies occurrence counts per distinct amount and returns
// the winner. Amounts are compared through their fixed two-decimal string
// form, never through float equality. The second return is false when no
// amount repeats (fewer than two transactions, or every amount distinct) —
// an explicit outcome, checked before any maximum is taken.
func FindRecurring(group []model.CanonicalTransaction) (Recurrence, bool) {
	if len(group) < 2 {
		return Recurrence{}, false
	}

	tally := make(map[string]int)
	values := make(map[string]decimal.Decimal)
	for _, txn := range group {
		key := txn.Amount.StringFixed(2)
		tally[key]++
		values[key] = txn.Amount
	}
	if len(tally) == 0 {
		return Recurrence{}, false
	}

	maxCount := 0
	for _, n := range tally {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount < 2 {
		return Recurrence{}, false
	}

	var tied []string
	for key, n := range tally {
		if n == maxCount {
			tied = append(tied, key)
		}
	}
	sort.Strings(tied)

	winner := tied[0]
	if len(tied) > 1 {
		winner = closestToMedian(tied, values, group)
	}

	rec := Recurrence{Amount: values[winner]}
	for _, txn := range group {
		if txn.Amount.StringFixed(2) == winner {
			rec.Support = append(rec.Support, txn)
		}
	}
	return rec, true
}

// closestToMedian breaks a tie between equally frequent amounts by picking
// the one nearest the group's median expense magnitude. Ties on distance
// fall back to the lexicographically smaller amount string, keeping the
// result stable across runs.
func closestToMedian(tied []string, values map[string]decimal.Decimal, group []model.CanonicalTransaction) string {
	median := medianExpense(group)

	best := tied[0]
	bestDist := values[best].Abs().Sub(median).Abs()
	for _, key := range tied[1:] {
		dist := values[key].Abs().Sub(median).Abs()
		if dist.LessThan(bestDist) {
			best = key
			bestDist = dist
		}
	}
	return best
}

// medianExpense returns the median magnitude of the group's expense
// (negative) amounts, or of all amounts when the group has no expenses.
func medianExpense(group []model.CanonicalTransaction) decimal.Decimal {
	var magnitudes []decimal.Decimal
	for _, txn := range group {
		if txn.Amount.IsNegative() {
			magnitudes = append(magnitudes, txn.Amount.Abs())
		}
	}
	if len(magnitudes) == 0 {
		for _, txn := range group {
			magnitudes = append(magnitudes, txn.Amount.Abs())
		}
	}

	sort.Slice(magnitudes, func(i, j int) bool {
		return magnitudes[i].LessThan(magnitudes[j])
	})

	mid := len(magnitudes) / 2
	if len(magnitudes)%2 == 1 {
		return magnitudes[mid]
	}
	return magnitudes[mid-1].Add(magnitudes[mid]).Div(decimal.NewFromInt(2))
}
