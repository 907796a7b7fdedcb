package candidates

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack-dev/subtrack/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func spotifyCandidate() model.SubscriptionCandidate {
	return model.SubscriptionCandidate{
		Merchant:     "Spotify AB",
		MerchantKey:  "spotify ab",
		Amount:       dec("9.99"),
		Currency:     "EUR",
		Cycle:        model.CycleMonthly,
		LastCharge:   date(2025, 3, 4),
		NextCharge:   date(2025, 4, 4),
		Confidence:   80,
		Eligible:     true,
		SupportCount: 3,
	}
}

func TestStore_ReadMissing(t *testing.T) {
	recs, err := NewStore(t.TempDir()).Read()
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestStore_UpsertInserts(t *testing.T) {
	store := NewStore(t.TempDir())

	inserted, updated, err := store.Upsert([]model.SubscriptionCandidate{spotifyCandidate()})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, updated)

	recs, err := store.Read()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "sub_20250304_spotifyab", recs[0].ID)
	assert.Equal(t, "9.99", recs[0].Amount.StringFixed(2))
	assert.Equal(t, model.CycleMonthly, recs[0].Cycle)
}

func TestStore_UpsertUpdatesKeepingID(t *testing.T) {
	store := NewStore(t.TempDir())

	_, _, err := store.Upsert([]model.SubscriptionCandidate{spotifyCandidate()})
	require.NoError(t, err)

	// Price change on the next run: same merchant key, new amount.
	changed := spotifyCandidate()
	changed.Amount = dec("10.99")
	changed.LastCharge = date(2025, 4, 4)
	changed.NextCharge = date(2025, 5, 4)

	inserted, updated, err := store.Upsert([]model.SubscriptionCandidate{changed})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, updated)

	recs, err := store.Read()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "sub_20250304_spotifyab", recs[0].ID, "ID survives updates")
	assert.Equal(t, "10.99", recs[0].Amount.StringFixed(2))
}

func TestStore_SortedByMerchantKey(t *testing.T) {
	store := NewStore(t.TempDir())

	netflix := spotifyCandidate()
	netflix.Merchant = "Netflix"
	netflix.MerchantKey = "netflix"

	_, _, err := store.Upsert([]model.SubscriptionCandidate{spotifyCandidate(), netflix})
	require.NoError(t, err)

	recs, err := store.Read()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "netflix", recs[0].MerchantKey)
	assert.Equal(t, "spotify ab", recs[1].MerchantKey)
}

func TestRecord_CSVRoundtrip(t *testing.T) {
	cand := spotifyCandidate()
	cand.Eligible = false
	cand.RejectionReason = model.ReasonBlacklistedMerchant
	cand.StaleProjection = true

	rec := Record{ID: MakeID(cand.LastCharge, cand.MerchantKey), SubscriptionCandidate: cand}
	back, err := UnmarshalRecord(MarshalRecord(rec))
	require.NoError(t, err)

	assert.Equal(t, rec.ID, back.ID)
	assert.Equal(t, rec.Merchant, back.Merchant)
	assert.True(t, rec.Amount.Equal(back.Amount))
	assert.Equal(t, rec.RejectionReason, back.RejectionReason)
	assert.True(t, back.StaleProjection)
	assert.Equal(t, rec.LastCharge, back.LastCharge)
}

func TestMakeID(t *testing.T) {
	id := MakeID(date(2025, 1, 3), "spotify ab")
	assert.Equal(t, "sub_20250103_spotifyab", id)

	// Long keys truncate.
	long := MakeID(date(2025, 1, 3), "a very long merchant name indeed")
	assert.Equal(t, "sub_20250103_averylongmer", long)
}

// brokenWriter fails every write, forcing the csv writer to surface errors.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteRecords_ErrorNamesRecord(t *testing.T) {
	cand := spotifyCandidate()
	// Oversize one field so the row overflows the csv writer's buffer and
	// the write error surfaces on this record rather than on flush.
	cand.Merchant = strings.Repeat("x", 8192)
	rec := Record{ID: "sub_20250304_spotifyab", SubscriptionCandidate: cand}

	err := WriteRecords(brokenWriter{}, []Record{rec})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub_20250304_spotifyab")
}

func TestStore_WriteCreatesDir(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Write([]Record{{ID: "sub_x", SubscriptionCandidate: spotifyCandidate()}}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}
