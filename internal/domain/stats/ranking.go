package stats

import (
	"sort"
)

// Rank orders rows by the signed difference of the chosen metric and
// returns the top K (descending=true) or bottom K. Groups below the
// minimum qualifying-event count are excluded before ranking, as are
// groups whose comparison is undefined; neither is an error.
func (a *Aggregator) Rank(rows []Row, m Metric, descending bool) []Row {
	eligible := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Count < a.minSample {
			continue
		}
		if d, ok := r.Diffs[m]; !ok || !d.OK {
			continue
		}
		eligible = append(eligible, r)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		di, dj := eligible[i].Diffs[m].Delta, eligible[j].Diffs[m].Delta
		if descending {
			return di > dj
		}
		return di < dj
	})

	if len(eligible) > a.k {
		eligible = eligible[:a.k]
	}
	return eligible
}
