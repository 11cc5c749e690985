package providers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/sorinirimies/netrunner-cli/providers"
	"github.com/stretchr/testify/suite"
)

type MockedIPInfoTestSuite struct {
	MockedProviderTestSuite

	prov netlib.Provider
}

func (suite *MockedIPInfoTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.prov = providers.NewIPInfo(suite.http, "token")
}

func (suite *MockedIPInfoTestSuite) TestName() {
	suite.Equal(providers.NameIPInfo, suite.prov.Name())
}

func (suite *MockedIPInfoTestSuite) TestLookupClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.prov.Lookup(ctx)

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupFailed() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.prov.Lookup(context.Background())

	suite.ErrorKind(err, netlib.ProviderErrorHTTPStatus)
}

func (suite *MockedIPInfoTestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.prov.Lookup(context.Background())

	suite.ErrorKind(err, netlib.ProviderErrorParse)
}

func (suite *MockedIPInfoTestSuite) TestLookupBadLoc() {
	for _, v := range []string{"", "36.7957", "abc,-76.0126", "36.7957,xyz", "1,2,3"} {
		httpmock.RegisterResponder("GET",
			"https://ipinfo.io/json",
			httpmock.NewStringResponder(http.StatusOK,
				`{"city": "Virginia Beach", "country": "US", "loc": "`+v+`"}`))

		_, err := suite.prov.Lookup(context.Background())

		suite.ErrorKind(err, netlib.ProviderErrorParse)
	}
}

func (suite *MockedIPInfoTestSuite) TestLookupAPIError() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		httpmock.NewStringResponder(http.StatusOK, `{
  "status": 403,
  "error": {
    "title": "Invalid token",
    "message": "Please provide a valid token."
  }
}`))

	_, err := suite.prov.Lookup(context.Background())

	suite.ErrorKind(err, netlib.ProviderErrorAPI)
}

func (suite *MockedIPInfoTestSuite) TestLookupOk() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		func(req *http.Request) (*http.Response, error) {
			suite.Equal("Bearer token", req.Header.Get("Authorization"))

			return httpmock.NewStringResponse(http.StatusOK, `{
  "ip": "23.22.13.113",
  "hostname": "ec2-23-22-13-113.compute-1.amazonaws.com",
  "city": "Virginia Beach",
  "region": "Virginia",
  "country": "US",
  "loc": "36.7957,-76.0126",
  "org": "AS14618 Amazon.com, Inc.",
  "postal": "23479",
  "timezone": "America/New_York"
}`), nil
		})

	result, err := suite.prov.Lookup(context.Background())

	suite.NoError(err)
	suite.Equal("US", result.CountryCode)
	suite.Equal("Virginia Beach", result.City)
	suite.InDelta(36.7957, result.Latitude, 1e-9)
	suite.InDelta(-76.0126, result.Longitude, 1e-9)
	suite.Equal("AS14618 Amazon.com, Inc.", result.ISP)

	loc, err := netlib.NewLocation(result, suite.prov.Name())

	suite.NoError(err)
	suite.Equal("United States", loc.Country)
}

type IntegrationIPInfoTestSuite struct {
	ProviderTestSuite

	prov netlib.Provider
}

func (suite *IntegrationIPInfoTestSuite) SetupTest() {
	suite.ProviderTestSuite.SetupTest()

	suite.prov = providers.NewIPInfo(suite.http, "")
}

func (suite *IntegrationIPInfoTestSuite) TestLookup() {
	result, err := suite.prov.Lookup(context.Background())

	suite.NoError(err)
	suite.NoError(netlib.ValidateLookup(result))
}

func TestIPInfo(t *testing.T) {
	suite.Run(t, &MockedIPInfoTestSuite{})
}

func TestIntegrationIPInfo(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipped because of the short mode")
		return
	}

	suite.Run(t, &IntegrationIPInfoTestSuite{})
}
