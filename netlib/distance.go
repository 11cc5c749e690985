package netlib

import "math"

// EarthRadiusKm is a mean radius of Earth.
const EarthRadiusKm = 6371.0

// DistanceKm returns a great-circle distance between 2 points using
// haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	sinDLat := math.Sin(degreesToRadians(b.Latitude-a.Latitude) / 2)
	sinDLon := math.Sin(degreesToRadians(b.Longitude-a.Longitude) / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon

	// rounding errors can push h slightly out of [0, 1] for
	// antipodal points and asin gives NaN then.
	h = math.Min(math.Max(h, 0), 1)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// CandidateDistanceKm returns a distance between the client and a
// candidate. Candidates without coordinates are anycast CDNs, they are
// treated as co-located.
func CandidateDistanceKm(loc Location, candidate ServerCandidate) float64 {
	if candidate.Coordinate == nil {
		return 0
	}

	return DistanceKm(loc.Coordinate(), *candidate.Coordinate)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
