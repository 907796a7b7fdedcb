package detect

import (
	"time"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// NextCharge projects the next expected billing date by adding one cadence
// unit to the last charge date. A zero last date substitutes today before
// projecting, so the projection is never undefined. The second return is
// true when the computed date is not strictly after today — a sign the data
// is stale or the cycle was misclassified. The date is returned as computed
// either way; rolling it forward would mask detection errors.
func NextCharge(last time.Time, cycle model.BillingCycle, today time.Time) (time.Time, bool) {
	if last.IsZero() {
		last = today
	}

	var next time.Time
	switch cycle {
	case model.CycleWeekly:
		next = last.AddDate(0, 0, 7)
	case model.CycleQuarterly:
		next = last.AddDate(0, 3, 0)
	case model.CycleYearly:
		next = last.AddDate(1, 0, 0)
	default:
		// Monthly, and the conservative guess for an unknown cadence.
		next = last.AddDate(0, 1, 0)
	}

	return next, !next.After(today)
}
