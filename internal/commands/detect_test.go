package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack-dev/subtrack/internal/candidates"
	"github.com/subtrack-dev/subtrack/internal/model"
	"github.com/subtrack-dev/subtrack/internal/runlog"
)

const statementCSV = `date,merchant,amount,currency,description
2025-01-03,Spotify AB,-9.99,EUR,Spotify Premium
2025-01-05,PostNL,-6.95,EUR,Parcel postage
2025-01-10,Albert Heijn,-45.20,EUR,Groceries
2025-01-15,Employer BV,2500.00,EUR,Salary January
2025-02-02,Spotify AB,-9.99,EUR,Spotify Premium
2025-02-04,PostNL,-6.95,EUR,Parcel postage
2025-02-09,Albert Heijn,-38.10,EUR,Groceries
2025-03-04,Spotify AB,-9.99,EUR,Spotify Premium
`

func initWithImport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, runInit(dir, true))
	path := filepath.Join(dir, "import", "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(statementCSV), 0o644))
	return dir
}

func TestRunDetect_EndToEnd(t *testing.T) {
	dir := initWithImport(t)

	require.NoError(t, runDetect(dir, "generic", false))

	recs, err := candidates.NewStore(dir).Read()
	require.NoError(t, err)

	byKey := make(map[string]candidates.Record)
	for _, rec := range recs {
		byKey[rec.MerchantKey] = rec
	}

	// Spotify: monthly, eligible, confident.
	spotify, ok := byKey["spotify ab"]
	require.True(t, ok)
	assert.True(t, spotify.Eligible)
	assert.Equal(t, model.CycleMonthly, spotify.Cycle)
	assert.Equal(t, "9.99", spotify.Amount.StringFixed(2))
	assert.GreaterOrEqual(t, spotify.Confidence, 75)

	// PostNL: stored for diagnostics, but blacklisted.
	postnl, ok := byKey["postnl"]
	require.True(t, ok)
	assert.False(t, postnl.Eligible)
	assert.Equal(t, model.ReasonBlacklistedMerchant, postnl.RejectionReason)

	// Albert Heijn never repeats an amount; Employer BV is a single
	// transaction: neither reaches the store.
	assert.NotContains(t, byKey, "albert heijn")
	assert.NotContains(t, byKey, "employer bv")
}

func TestRunDetect_MovesProcessedFiles(t *testing.T) {
	dir := initWithImport(t)

	require.NoError(t, runDetect(dir, "generic", false))

	_, err := os.Stat(filepath.Join(dir, "import", "statement.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "statement.csv"))
	assert.NoError(t, err)
}

func TestRunDetect_WritesRunLog(t *testing.T) {
	dir := initWithImport(t)

	require.NoError(t, runDetect(dir, "generic", false))

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "statement.csv", e.Source)
	assert.Equal(t, 8, e.Parsed)
	assert.Equal(t, 0, e.Skipped)
	assert.Equal(t, 2, e.Candidates)
	assert.Equal(t, 1, e.Surfaced)
	assert.NotEmpty(t, e.RunID)
}

func TestRunDetect_SecondRunUpdatesStore(t *testing.T) {
	dir := initWithImport(t)
	require.NoError(t, runDetect(dir, "generic", false))

	// Next month's export arrives with a price change.
	next := `date,merchant,amount,currency,description
2025-03-04,Spotify AB,-10.99,EUR,Spotify Premium
2025-04-03,Spotify AB,-10.99,EUR,Spotify Premium
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "april.csv"), []byte(next), 0o644))
	require.NoError(t, runDetect(dir, "generic", false))

	recs, err := candidates.NewStore(dir).Read()
	require.NoError(t, err)

	var spotify *candidates.Record
	for i := range recs {
		if recs[i].MerchantKey == "spotify ab" {
			spotify = &recs[i]
		}
	}
	require.NotNil(t, spotify)
	assert.Equal(t, "10.99", spotify.Amount.StringFixed(2))
}

func TestRunDetect_UnknownFormat(t *testing.T) {
	dir := initWithImport(t)
	err := runDetect(dir, "nonexistent", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown import format")
}

func TestRunDetect_NoImportFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, true))

	assert.NoError(t, runDetect(dir, "generic", false))
}
