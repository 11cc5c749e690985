package netlib

import "math"

// Score computes a quality of the server. Bigger is better. Latency and
// distance are floored so a server next door with a 0ms answer does not
// produce an infinite score.
func Score(weight, distanceKm, latencyMs float64) float64 {
	return (10000 * weight) /
		(math.Max(latencyMs, 1) + math.Max(distanceKm/100, 1))
}

// ScoreAll returns scored servers for candidates which have
// successfully responded. Failed candidates are skipped.
func ScoreAll(loc Location, candidates []ServerCandidate, results map[string]ProbeResult) []ScoredServer {
	rv := make([]ScoredServer, 0, len(candidates))

	for _, v := range candidates {
		res, ok := results[v.ID]
		if !ok || !res.Success {
			continue
		}

		distance := CandidateDistanceKm(loc, v)

		rv = append(rv, ScoredServer{
			Candidate:  v,
			DistanceKm: distance,
			LatencyMs:  res.LatencyMs,
			JitterMs:   res.JitterMs,
			Quality:    Score(v.Weight, distance, res.LatencyMs),
		})
	}

	return rv
}
