package providers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite

	http netlib.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = netlib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100)
}

func (suite *ProviderTestSuite) ErrorKind(err error, kind netlib.ProviderErrorKind) {
	provErr := &netlib.ProviderError{}

	if suite.True(errors.As(err, &provErr), err) {
		suite.Equal(kind, provErr.Kind, err.Error())
	}
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}
