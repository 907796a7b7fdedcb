package detect

import (
	"github.com/shopspring/decimal"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// TermMatcher tests a merchant label against configured term lists. The
// engine applies whatever vocabularies are configured; it never knows the
// terms themselves.
type TermMatcher interface {
	Blacklisted(label string) bool
	Whitelisted(label string) bool
}

// Rules holds the tunable amount bounds for eligibility.
type Rules struct {
	MinAmount decimal.Decimal // charges below this magnitude are minor fees
	MaxAmount decimal.Decimal // charges above this look like one-off purchases
}

// DefaultRules returns the stock amount window: 2.00 to 500.00.
func DefaultRules() Rules {
	return Rules{
		MinAmount: decimal.NewFromInt(2),
		MaxAmount: decimal.NewFromInt(500),
	}
}

// Evaluate applies the eligibility rules in order; the first match wins.
// amount is the signed recurring amount, label the normalized merchant label.
func Evaluate(label string, amount decimal.Decimal, cycle model.BillingCycle, terms TermMatcher, rules Rules) (bool, model.RejectionReason) {
	switch {
	case amount.IsPositive():
		// Incoming funds are never subscriptions.
		return false, model.ReasonIncomeTransaction
	case terms.Blacklisted(label):
		return false, model.ReasonBlacklistedMerchant
	case cycle == model.CycleUnknown:
		return false, model.ReasonNoValidCycle
	case amount.Abs().LessThan(rules.MinAmount):
		return false, model.ReasonAmountTooSmall
	case amount.Abs().GreaterThan(rules.MaxAmount):
		return false, model.ReasonAmountTooLarge
	}
	return true, ""
}
