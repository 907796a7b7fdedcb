package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a bank transaction as delivered by an import parser.
// Fields stay strings because export formats disagree on amount and date
// encodings; the normalize package owns all interpretation.
type RawTransaction struct {
	Merchant    string
	Amount      string // signed; negative = outgoing
	Currency    string
	Date        string
	Description string
}

// CanonicalTransaction is the normalized view the detection engine works on.
type CanonicalTransaction struct {
	Merchant    string          // original-case label, for display
	MerchantKey string          // lower-cased, whitespace-collapsed
	Amount      decimal.Decimal // sign preserved, never zero
	Currency    string
	Date        time.Time
	DateAssumed bool // source date was unparsable and today was substituted
}
