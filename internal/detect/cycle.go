package detect

import (
	"time"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// cycleWindows maps a mean day-gap to a cadence. Bounds are inclusive and
// tolerate the few days of drift real billing dates show across weekends
// and month lengths. The ranges between windows (e.g. 33-84 days) are a
// deliberate dead zone: an ambiguous mean is classified unknown rather than
// forced into the nearest cadence.
var cycleWindows = []struct {
	cycle    model.BillingCycle
	min, max float64
}{
	{model.CycleWeekly, 6, 8},
	{model.CycleMonthly, 28, 32},
	{model.CycleQuarterly, 85, 95},
	{model.CycleYearly, 350, 380},
}

// Gaps returns the whole-day gaps between consecutive transactions.
// Input must be sorted ascending by date.
func Gaps(txns []model.CanonicalTransaction) []int {
	gaps := make([]int, 0, len(txns)-1)
	for i := 1; i < len(txns); i++ {
		days := int(txns[i].Date.Sub(txns[i-1].Date) / (24 * time.Hour))
		gaps = append(gaps, days)
	}
	return gaps
}

// Classify infers the billing cadence from the mean gap between
// consecutive charges. Input needs at least two transactions, sorted
// ascending by date. A mean outside every window yields CycleUnknown.
func Classify(txns []model.CanonicalTransaction) (model.BillingCycle, []int) {
	gaps := Gaps(txns)
	if len(gaps) == 0 {
		return model.CycleUnknown, gaps
	}

	sum := 0
	for _, g := range gaps {
		sum += g
	}
	mean := float64(sum) / float64(len(gaps))

	for _, w := range cycleWindows {
		if mean >= w.min && mean <= w.max {
			return w.cycle, gaps
		}
	}
	return model.CycleUnknown, gaps
}
