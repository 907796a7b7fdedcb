// Package candidates persists detection results as a plain-text CSV store.
// The detection engine never touches this layer; insert/update decisions
// against prior state are made here.
package candidates

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// Record is one row in candidates.csv: a stored candidate plus its ID.
type Record struct {
	ID string
	model.SubscriptionCandidate
}

// Header is the CSV header for candidates.csv.
const Header = "candidate_id,merchant,merchant_key,amount,currency,billing_cycle,last_charge,next_charge,confidence,eligible,rejection_reason,support_count,stale"

const (
	numFields     = 13
	dateFormat    = "2006-01-02"
	colID         = 0
	colMerchant   = 1
	colKey        = 2
	colAmount     = 3
	colCurrency   = 4
	colCycle      = 5
	colLastCharge = 6
	colNextCharge = 7
	colConfidence = 8
	colEligible   = 9
	colReason     = 10
	colSupport    = 11
	colStale      = 12
)

// ReadRecords reads all records from a candidates.csv reader.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading candidates CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var recs []Record
	for i, row := range records[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// WriteRecords writes records to a candidates.csv writer (including header).
func WriteRecords(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.ID, err)
		}
	}
	return cw.Error()
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(rec Record) []string {
	row := make([]string, numFields)
	row[colID] = rec.ID
	row[colMerchant] = rec.Merchant
	row[colKey] = rec.MerchantKey
	row[colAmount] = rec.Amount.StringFixed(2)
	row[colCurrency] = rec.Currency
	row[colCycle] = string(rec.Cycle)

	if !rec.LastCharge.IsZero() {
		row[colLastCharge] = rec.LastCharge.Format(dateFormat)
	}
	if !rec.NextCharge.IsZero() {
		row[colNextCharge] = rec.NextCharge.Format(dateFormat)
	}

	row[colConfidence] = strconv.Itoa(rec.Confidence)
	row[colEligible] = strconv.FormatBool(rec.Eligible)
	row[colReason] = string(rec.RejectionReason)
	row[colSupport] = strconv.Itoa(rec.SupportCount)
	row[colStale] = strconv.FormatBool(rec.StaleProjection)

	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (Record, error) {
	if len(row) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	amount, err := decimal.NewFromString(row[colAmount])
	if err != nil {
		return Record{}, fmt.Errorf("parsing amount %q: %w", row[colAmount], err)
	}

	var lastCharge, nextCharge time.Time
	if row[colLastCharge] != "" {
		lastCharge, err = time.Parse(dateFormat, row[colLastCharge])
		if err != nil {
			return Record{}, fmt.Errorf("parsing last_charge %q: %w", row[colLastCharge], err)
		}
	}
	if row[colNextCharge] != "" {
		nextCharge, err = time.Parse(dateFormat, row[colNextCharge])
		if err != nil {
			return Record{}, fmt.Errorf("parsing next_charge %q: %w", row[colNextCharge], err)
		}
	}

	confidence, err := strconv.Atoi(row[colConfidence])
	if err != nil {
		return Record{}, fmt.Errorf("parsing confidence %q: %w", row[colConfidence], err)
	}

	eligible, err := strconv.ParseBool(row[colEligible])
	if err != nil {
		return Record{}, fmt.Errorf("parsing eligible %q: %w", row[colEligible], err)
	}

	support, err := strconv.Atoi(row[colSupport])
	if err != nil {
		return Record{}, fmt.Errorf("parsing support_count %q: %w", row[colSupport], err)
	}

	stale, err := strconv.ParseBool(row[colStale])
	if err != nil {
		return Record{}, fmt.Errorf("parsing stale %q: %w", row[colStale], err)
	}

	return Record{
		ID: row[colID],
		SubscriptionCandidate: model.SubscriptionCandidate{
			Merchant:        row[colMerchant],
			MerchantKey:     row[colKey],
			Amount:          amount,
			Currency:        row[colCurrency],
			Cycle:           model.BillingCycle(row[colCycle]),
			LastCharge:      lastCharge,
			NextCharge:      nextCharge,
			Confidence:      confidence,
			Eligible:        eligible,
			RejectionReason: model.RejectionReason(row[colReason]),
			SupportCount:    support,
			StaleProjection: stale,
		},
	}, nil
}

// MakeID creates a candidate ID like sub_20250103_spotifyab.
func MakeID(lastCharge time.Time, merchantKey string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, merchantKey)
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return fmt.Sprintf("sub_%s_%s", lastCharge.Format("20060102"), prefix)
}
