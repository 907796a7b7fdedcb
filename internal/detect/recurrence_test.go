package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack-dev/subtrack/internal/model"
)

func TestFindRecurring_SingleTransaction(t *testing.T) {
	group := []model.CanonicalTransaction{
		ctxn("Spotify AB", "-9.99", date(2025, 1, 3)),
	}
	_, ok := FindRecurring(group)
	assert.False(t, ok)
}

func TestFindRecurring_AllAmountsDistinct(t *testing.T) {
	group := []model.CanonicalTransaction{
		ctxn("Albert Heijn", "-45.20", date(2025, 1, 10)),
		ctxn("Albert Heijn", "-38.10", date(2025, 2, 9)),
	}
	_, ok := FindRecurring(group)
	assert.False(t, ok)
}

func TestFindRecurring_Majority(t *testing.T) {
	group := []model.CanonicalTransaction{
		ctxn("Spotify AB", "-9.99", date(2025, 1, 3)),
		ctxn("Spotify AB", "-9.99", date(2025, 2, 2)),
		ctxn("Spotify AB", "-12.99", date(2025, 2, 20)),
		ctxn("Spotify AB", "-9.99", date(2025, 3, 4)),
	}

	rec, ok := FindRecurring(group)
	require.True(t, ok)
	assert.Equal(t, "-9.99", rec.Amount.StringFixed(2))
	assert.Len(t, rec.Support, 3)
}

func TestFindRecurring_SupportMatchesAmountExactly(t *testing.T) {
	group := []model.CanonicalTransaction{
		ctxn("Gym", "-29.99", date(2025, 1, 1)),
		ctxn("Gym", "-29.99", date(2025, 2, 1)),
		ctxn("Gym", "-30.00", date(2025, 3, 1)),
	}

	rec, ok := FindRecurring(group)
	require.True(t, ok)
	for _, txn := range rec.Support {
		assert.Equal(t, "-29.99", txn.Amount.StringFixed(2))
	}
}

func TestFindRecurring_TieBreaksTowardMedianExpense(t *testing.T) {
	// 9.99 and 45.00 both occur twice; the median expense magnitude is
	// 30.00, so 45.00 wins the tie.
	group := []model.CanonicalTransaction{
		ctxn("Mixed Shop", "-9.99", date(2025, 1, 1)),
		ctxn("Mixed Shop", "-9.99", date(2025, 1, 15)),
		ctxn("Mixed Shop", "-30.00", date(2025, 2, 1)),
		ctxn("Mixed Shop", "-45.00", date(2025, 2, 15)),
		ctxn("Mixed Shop", "-45.00", date(2025, 3, 1)),
	}

	rec, ok := FindRecurring(group)
	require.True(t, ok)
	assert.Equal(t, "-45.00", rec.Amount.StringFixed(2))
	assert.Len(t, rec.Support, 2)
}

func TestFindRecurring_TieBreakIsDeterministic(t *testing.T) {
	group := []model.CanonicalTransaction{
		ctxn("Shop", "-10.00", date(2025, 1, 1)),
		ctxn("Shop", "-10.00", date(2025, 2, 1)),
		ctxn("Shop", "-20.00", date(2025, 1, 15)),
		ctxn("Shop", "-20.00", date(2025, 2, 15)),
	}

	first, ok := FindRecurring(group)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		next, ok := FindRecurring(group)
		require.True(t, ok)
		assert.Equal(t, first.Amount.StringFixed(2), next.Amount.StringFixed(2))
	}
}
