// Package normalize converts raw bank-export records into canonical
// transactions. All field-mapping quirks of the import formats stop here:
// the detection engine only ever sees CanonicalTransactions.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// MalformedTransactionError marks a single record that cannot be
// normalized. Callers skip the record and continue; one bad row must not
// block detection for the rest of a user's history.
type MalformedTransactionError struct {
	Field string
	Value string
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("malformed transaction: bad %s %q", e.Field, e.Value)
}

// dateLayouts are tried in order when parsing booking dates.
var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"02-01-2006",
	"01/02/2006",
}

// MerchantKey lower-cases and whitespace-collapses a merchant label into
// the stable grouping key.
func MerchantKey(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// Normalize converts a RawTransaction into a CanonicalTransaction.
// It fails when the amount is non-numeric or zero, or the merchant label is
// empty after trimming. An unparsable date is not an error: today is
// substituted and DateAssumed is set so the caller can log the fallback.
func Normalize(raw model.RawTransaction, today time.Time) (model.CanonicalTransaction, error) {
	merchant := strings.TrimSpace(raw.Merchant)
	if merchant == "" {
		return model.CanonicalTransaction{}, &MalformedTransactionError{Field: "merchant", Value: raw.Merchant}
	}

	amount, err := parseAmount(raw.Amount)
	if err != nil {
		return model.CanonicalTransaction{}, &MalformedTransactionError{Field: "amount", Value: raw.Amount}
	}
	if amount.IsZero() {
		return model.CanonicalTransaction{}, &MalformedTransactionError{Field: "amount", Value: raw.Amount}
	}

	date, assumed := parseDate(raw.Date, today)

	return model.CanonicalTransaction{
		Merchant:    merchant,
		MerchantKey: MerchantKey(merchant),
		Amount:      amount,
		Currency:    strings.ToUpper(strings.TrimSpace(raw.Currency)),
		Date:        date,
		DateAssumed: assumed,
	}, nil
}

// parseAmount accepts both dot-decimal and European comma-decimal
// encodings, with or without a thousands separator.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	comma := strings.Contains(s, ",")
	dot := strings.Contains(s, ".")
	switch {
	case comma && dot:
		// Whichever separator comes first is the thousands separator.
		if strings.Index(s, ",") < strings.Index(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	case comma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	return decimal.NewFromString(s)
}

func parseDate(s string, today time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, false
		}
	}
	return today, true
}
