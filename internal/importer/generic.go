package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// GenericParser parses the plain date,merchant,amount,currency,description
// export most aggregators can produce.
type GenericParser struct{}

const (
	genericNumFields   = 5
	genericColDate     = 0
	genericColMerchant = 1
	genericColAmount   = 2
	genericColCurrency = 3
	genericColDesc     = 4
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic CSV and returns RawTransactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.RawTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = genericNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	txns := make([]model.RawTransaction, 0, len(records)-1)
	for _, rec := range records[1:] {
		txns = append(txns, model.RawTransaction{
			Merchant:    rec[genericColMerchant],
			Amount:      rec[genericColAmount],
			Currency:    rec[genericColCurrency],
			Date:        rec[genericColDate],
			Description: rec[genericColDesc],
		})
	}
	return txns, nil
}
