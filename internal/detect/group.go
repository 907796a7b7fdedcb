package detect

import (
	"sort"

	"github.com/subtrack-dev/subtrack/internal/model"
)

// GroupByMerchant partitions transactions by merchant key. Each group is
// sorted ascending by date; the returned key slice is sorted so callers
// iterate groups in a deterministic order. Distinct keys are never merged.
func GroupByMerchant(txns []model.CanonicalTransaction) (map[string][]model.CanonicalTransaction, []string) {
	groups := make(map[string][]model.CanonicalTransaction)
	for _, txn := range txns {
		groups[txn.MerchantKey] = append(groups[txn.MerchantKey], txn)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
	}
	sort.Strings(keys)

	return groups, keys
}
