package netlib

import "sort"

// Select returns up to maxCount best servers. Servers are ordered by
// quality, ties are broken by latency and then by name so the order is
// stable between runs.
//
// Empty input means that nothing has responded, ErrNoReachableServers
// is returned. There is no way to recover from this.
func Select(scored []ScoredServer, maxCount int) ([]ScoredServer, error) {
	if maxCount < 1 {
		return nil, ErrInvalidMaxCount
	}

	if len(scored) == 0 {
		return nil, ErrNoReachableServers
	}

	rv := make([]ScoredServer, len(scored))
	copy(rv, scored)

	sort.SliceStable(rv, func(i, j int) bool {
		switch {
		case rv[i].Quality != rv[j].Quality:
			return rv[i].Quality > rv[j].Quality
		case rv[i].LatencyMs != rv[j].LatencyMs:
			return rv[i].LatencyMs < rv[j].LatencyMs
		}

		return rv[i].Candidate.Name < rv[j].Candidate.Name
	})

	if len(rv) > maxCount {
		rv = rv[:maxCount]
	}

	return rv, nil
}
