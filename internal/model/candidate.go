package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle is the inferred cadence between recurring charges.
type BillingCycle string

const (
	CycleWeekly    BillingCycle = "weekly"
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
	CycleUnknown   BillingCycle = "unknown"
)

// Regular reports whether the cycle is a well-understood consumer cadence.
func (c BillingCycle) Regular() bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

// RejectionReason explains why a candidate failed the eligibility rules.
type RejectionReason string

const (
	ReasonIncomeTransaction   RejectionReason = "income_transaction"
	ReasonBlacklistedMerchant RejectionReason = "blacklisted_merchant"
	ReasonNoValidCycle        RejectionReason = "no_valid_cycle"
	ReasonAmountTooSmall      RejectionReason = "amount_too_small"
	ReasonAmountTooLarge      RejectionReason = "amount_too_large"
)

// SubscriptionCandidate is one detected recurring charge for a merchant.
// Confidence is computed for ineligible candidates too (diagnostics), but
// only Eligible candidates passed every filter rule.
type SubscriptionCandidate struct {
	Merchant        string
	MerchantKey     string
	Amount          decimal.Decimal // unsigned magnitude of the recurring charge
	Currency        string
	Cycle           BillingCycle
	LastCharge      time.Time
	NextCharge      time.Time
	Confidence      int // 0-100
	Eligible        bool
	RejectionReason RejectionReason // empty iff eligible
	SupportCount    int             // transactions at the recurring amount
	StaleProjection bool            // next charge is not strictly after today
}
