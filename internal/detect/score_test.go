package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subtrack-dev/subtrack/internal/model"
)

func TestScore_BaseCapsAtFifty(t *testing.T) {
	// Unlisted merchant, unknown cadence, amount outside the band: only
	// the base signal contributes.
	assert.Equal(t, 20, Score(2, "Obscure", dec("-950.00"), model.CycleUnknown, defaultTerms))
	assert.Equal(t, 50, Score(5, "Obscure", dec("-950.00"), model.CycleUnknown, defaultTerms))
	assert.Equal(t, 50, Score(12, "Obscure", dec("-950.00"), model.CycleUnknown, defaultTerms))
}

func TestScore_WhitelistBonus(t *testing.T) {
	without := Score(2, "Obscure", dec("-950.00"), model.CycleUnknown, defaultTerms)
	with := Score(2, "Spotify AB", dec("-950.00"), model.CycleUnknown, defaultTerms)
	assert.Equal(t, 25, with-without)
}

func TestScore_RegularCadenceBonus(t *testing.T) {
	for _, cycle := range []model.BillingCycle{model.CycleMonthly, model.CycleQuarterly, model.CycleYearly} {
		assert.Equal(t, 35, Score(2, "Obscure", dec("-950.00"), cycle, defaultTerms), string(cycle))
	}
	// Weekly is a valid cycle but not one of the boosted cadences.
	assert.Equal(t, 20, Score(2, "Obscure", dec("-950.00"), model.CycleWeekly, defaultTerms))
}

func TestScore_PriceBandBonus(t *testing.T) {
	assert.Equal(t, 30, Score(2, "Obscure", dec("-9.99"), model.CycleUnknown, defaultTerms))
	assert.Equal(t, 30, Score(2, "Obscure", dec("-2.00"), model.CycleUnknown, defaultTerms))
	assert.Equal(t, 30, Score(2, "Obscure", dec("-100.00"), model.CycleUnknown, defaultTerms))
	assert.Equal(t, 20, Score(2, "Obscure", dec("-100.01"), model.CycleUnknown, defaultTerms))
}

func TestScore_NeverExceedsHundred(t *testing.T) {
	score := Score(12, "Spotify AB", dec("-9.99"), model.CycleMonthly, defaultTerms)
	assert.Equal(t, 100, score)
}
