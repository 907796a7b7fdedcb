package detect

import (
	"github.com/shopspring/decimal"

	"github.com/subtrack-dev/subtrack/internal/model"
)

var (
	priceBandLow  = decimal.NewFromInt(2)
	priceBandHigh = decimal.NewFromInt(100)
)

// Score produces a 0-100 confidence value for a candidate. Additive
// signals: up to 50 from the supporting-transaction count, 25 for a
// whitelisted merchant, 15 for a regular cadence, 10 for a typical
// consumer-subscription price. Capped at 100.
func Score(supportCount int, label string, amount decimal.Decimal, cycle model.BillingCycle, terms TermMatcher) int {
	score := 10 * supportCount
	if score > 50 {
		score = 50
	}

	if terms.Whitelisted(label) {
		score += 25
	}
	if cycle.Regular() {
		score += 15
	}

	magnitude := amount.Abs()
	if magnitude.GreaterThanOrEqual(priceBandLow) && magnitude.LessThanOrEqual(priceBandHigh) {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Surfaced filters a detection run down to the candidates worth showing:
// eligible and at or above the confidence threshold. The threshold is
// caller policy (config), not a property of the domain.
func Surfaced(cands []model.SubscriptionCandidate, minConfidence int) []model.SubscriptionCandidate {
	var out []model.SubscriptionCandidate
	for _, c := range cands {
		if c.Eligible && c.Confidence >= minConfidence {
			out = append(out, c)
		}
	}
	return out
}
