package netlib_test

import (
	"math"
	"testing"

	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/stretchr/testify/suite"
)

type DistanceTestSuite struct {
	suite.Suite
}

func (suite *DistanceTestSuite) TestSamePoint() {
	points := []netlib.Coordinate{
		{Latitude: 52.52, Longitude: 13.405},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: 0},
	}

	for _, v := range points {
		suite.InDelta(0, netlib.DistanceKm(v, v), 1e-9)
	}
}

func (suite *DistanceTestSuite) TestSymmetric() {
	a := netlib.Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	b := netlib.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	suite.InDelta(netlib.DistanceKm(a, b), netlib.DistanceKm(b, a), 1e-9)
}

func (suite *DistanceTestSuite) TestKnownDistance() {
	newYork := netlib.Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	london := netlib.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	suite.InDelta(5570, netlib.DistanceKm(newYork, london), 10)
}

func (suite *DistanceTestSuite) TestAntipodal() {
	a := netlib.Coordinate{Latitude: 0, Longitude: 0}
	b := netlib.Coordinate{Latitude: 0, Longitude: 180}

	value := netlib.DistanceKm(a, b)

	suite.False(math.IsNaN(value))
	suite.InDelta(math.Pi*netlib.EarthRadiusKm, value, 1e-6)
}

func (suite *DistanceTestSuite) TestCandidateWithoutCoordinates() {
	candidate := netlib.NewServerCandidate("cdn",
		"https://speed.cloudflare.com",
		netlib.GeoClassGlobal,
		netlib.OriginStatic)

	suite.EqualValues(0, netlib.CandidateDistanceKm(locationBerlin, candidate))
}

func (suite *DistanceTestSuite) TestCandidateWithCoordinates() {
	candidate := netlib.NewServerCandidate("fra",
		"https://frankfurt.speedtest.wtnet.de",
		netlib.GeoClassContinental,
		netlib.OriginStatic).WithCoordinate(50.1109, 8.6821)

	suite.InDelta(424, netlib.CandidateDistanceKm(locationBerlin, candidate), 5)
}

func TestDistance(t *testing.T) {
	suite.Run(t, &DistanceTestSuite{})
}
