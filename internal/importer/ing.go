package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// INGParser parses Dutch ING checking-account CSV exports. ING writes
// dates as yyyymmdd, amounts always unsigned with a comma decimal
// separator, and a separate Af/Bij column marking the direction.
type INGParser struct{}

const (
	ingNumFields = 9
	ingColDate   = 0
	ingColName   = 1
	ingColDir    = 5 // "Af" (debit) or "Bij" (credit)
	ingColAmount = 6
	ingColDesc   = 8
)

// Format returns the parser name.
func (p *INGParser) Format() string { return "ing" }

// Parse reads an ING CSV and returns RawTransactions. Outgoing amounts get
// a minus sign; the comma decimal is left for the normalizer to handle.
func (p *INGParser) Parse(r io.Reader) ([]model.RawTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ingNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ing CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.RawTransaction
	for i, rec := range records[1:] {
		txn, err := parseINGRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseINGRow(rec []string) (model.RawTransaction, error) {
	amount := strings.TrimSpace(rec[ingColAmount])
	switch strings.TrimSpace(rec[ingColDir]) {
	case "Af":
		amount = "-" + amount
	case "Bij":
		// Incoming, stays positive.
	default:
		return model.RawTransaction{}, fmt.Errorf("unknown direction %q", rec[ingColDir])
	}

	return model.RawTransaction{
		Merchant:    rec[ingColName],
		Amount:      amount,
		Currency:    "EUR",
		Date:        rec[ingColDate],
		Description: rec[ingColDesc],
	}, nil
}
