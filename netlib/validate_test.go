package netlib_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/stretchr/testify/suite"
)

type ValidateTestSuite struct {
	suite.Suite
}

func (suite *ValidateTestSuite) AssertInvalid(res netlib.ProviderLookupResult) {
	err := netlib.ValidateLookup(res)

	var provErr *netlib.ProviderError

	suite.Error(err)
	suite.True(errors.As(err, &provErr))
	suite.Equal(netlib.ProviderErrorValidation, provErr.Kind)
}

func (suite *ValidateTestSuite) TestOk() {
	suite.NoError(netlib.ValidateLookup(lookupBerlin))
}

func (suite *ValidateTestSuite) TestLatitudeOutOfRange() {
	res := lookupBerlin
	res.Latitude = 91

	suite.AssertInvalid(res)
}

func (suite *ValidateTestSuite) TestLongitudeOutOfRange() {
	res := lookupBerlin
	res.Longitude = 181

	suite.AssertInvalid(res)
}

func (suite *ValidateTestSuite) TestOutOfRangeAxis() {
	testData := []struct {
		latitude  float64
		longitude float64
		axis      string
	}{
		{91, 13.4, "latitude"},
		{-90.5, 13.4, "latitude"},
		{math.NaN(), 13.4, "latitude"},
		{91, 181, "latitude"},
		{52.5, 181, "longitude"},
		{52.5, -180.1, "longitude"},
		{52.5, math.NaN(), "longitude"},
	}

	for _, v := range testData {
		res := lookupBerlin
		res.Latitude = v.latitude
		res.Longitude = v.longitude

		err := netlib.ValidateLookup(res)

		suite.Error(err)
		suite.Contains(err.Error(), v.axis+" ")
		suite.Contains(err.Error(), "out of range")
	}
}

func (suite *ValidateTestSuite) TestNullIsland() {
	res := lookupBerlin
	res.Latitude = 0
	res.Longitude = 0

	suite.AssertInvalid(res)
}

func (suite *ValidateTestSuite) TestEmptyCity() {
	for _, v := range []string{"", "   ", "Unknown", "unknown"} {
		res := lookupBerlin
		res.City = v

		suite.AssertInvalid(res)
	}
}

func (suite *ValidateTestSuite) TestEmptyCountry() {
	for _, v := range []string{"", "\t", "Unknown"} {
		res := lookupBerlin
		res.Country = v

		suite.AssertInvalid(res)
	}
}

func (suite *ValidateTestSuite) TestBoundaries() {
	res := lookupBerlin
	res.Latitude = -90
	res.Longitude = 180

	suite.NoError(netlib.ValidateLookup(res))
}

func (suite *ValidateTestSuite) TestNewLocation() {
	res := lookupBerlin
	res.City = "  Berlin "
	res.Country = "DEU"
	res.CountryCode = ""

	loc, err := netlib.NewLocation(res, "ipinfo")

	suite.NoError(err)
	suite.Equal("Berlin", loc.City)
	suite.Equal("DE", loc.CountryCode)
	suite.Equal("Germany", loc.Country)
	suite.Equal("ipinfo", loc.Source)
	suite.Equal("Deutsche Telekom AG", loc.ISP)
}

func (suite *ValidateTestSuite) TestNewLocationInvalid() {
	res := lookupBerlin
	res.City = ""

	_, err := netlib.NewLocation(res, "ipinfo")

	suite.Error(err)
}

func TestValidate(t *testing.T) {
	suite.Run(t, &ValidateTestSuite{})
}
