package netlib_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/sorinirimies/netrunner-cli/observability"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ClosingProviderMock struct {
	ProviderMock
}

func (m *ClosingProviderMock) Close() error {
	return m.Called().Error(0)
}

type NetrunnerTestSuite struct {
	suite.Suite

	providerMock *ClosingProviderMock
	pingerMock   *PingerMock
	logMock      *LoggerMock
	n            *netlib.Netrunner
}

func (suite *NetrunnerTestSuite) SetupTest() {
	suite.providerMock = &ClosingProviderMock{}
	suite.pingerMock = &PingerMock{}
	suite.logMock = &LoggerMock{}

	suite.providerMock.On("Name").Return("p0").Maybe()
	suite.providerMock.On("Close").Return(nil).Once()

	runner, err := netlib.NewNetrunner(netlib.Opts{
		Providers: []netlib.Provider{suite.providerMock},
		Pinger:    suite.pingerMock,
		Logger:    suite.logMock,
		Metrics:   observability.NewMetricsForTesting(),
	})
	if err != nil {
		panic(err)
	}

	suite.n = runner
}

func (suite *NetrunnerTestSuite) TearDownTest() {
	suite.n.Shutdown()

	suite.providerMock.AssertExpectations(suite.T())
	suite.logMock.AssertExpectations(suite.T())
}

func (suite *NetrunnerTestSuite) TestRun() {
	suite.providerMock.On("Lookup", mock.Anything).Return(lookupBerlin, nil).Once()
	suite.pingerMock.On("Ping", mock.Anything, mock.Anything).Return(nil)

	report, err := suite.n.Run(context.Background(), 3)

	suite.NoError(err)
	suite.NotEmpty(report.RunID)
	suite.False(report.Fallback)
	suite.Equal("Berlin", report.Location.City)
	suite.Len(report.Selected, 3)
	suite.Len(report.Probes, len(report.Candidates))
	suite.Len(report.Providers, 1)
	suite.Len(report.SmoothedLatency, 3)

	for i := 1; i < len(report.Selected); i++ {
		suite.GreaterOrEqual(report.Selected[i-1].Quality, report.Selected[i].Quality)
	}
}

func (suite *NetrunnerTestSuite) TestRunFallback() {
	suite.providerMock.On("Lookup", mock.Anything).Return(netlib.ProviderLookupResult{}, io.EOF).Once()
	suite.pingerMock.On("Ping", mock.Anything, mock.Anything).Return(nil)

	report, err := suite.n.Run(context.Background(), 2)

	suite.NoError(err)
	suite.True(report.Fallback)
	suite.Equal(netlib.FallbackLocation, report.Location)
	suite.Len(report.Selected, 2)
}

func (suite *NetrunnerTestSuite) TestNoReachableServers() {
	suite.providerMock.On("Lookup", mock.Anything).Return(lookupBerlin, nil).Once()
	suite.pingerMock.On("Ping", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	report, err := suite.n.Run(context.Background(), 3)

	suite.ErrorIs(err, netlib.ErrNoReachableServers)
	suite.NotEmpty(report.Candidates)
	suite.Empty(report.Selected)

	for _, v := range report.Probes {
		suite.False(v.Success)
	}
}

func (suite *NetrunnerTestSuite) TestSelectBestServers() {
	suite.pingerMock.On("Ping", mock.Anything, mock.MatchedBy(func(candidate netlib.ServerCandidate) bool {
		return candidate.Class == netlib.GeoClassGlobal
	})).Return(nil)
	suite.pingerMock.On("Ping", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	selected, err := suite.n.SelectBestServers(context.Background(), locationBerlin, 3)

	suite.NoError(err)
	suite.Len(selected, 1)
	suite.Equal(netlib.GeoClassGlobal, selected[0].Candidate.Class)
	suite.EqualValues(0, selected[0].DistanceKm)
}

func (suite *NetrunnerTestSuite) TestInvalidMaxCount() {
	_, err := suite.n.SelectBestServers(context.Background(), locationBerlin, 0)

	suite.ErrorIs(err, netlib.ErrInvalidMaxCount)
}

func (suite *NetrunnerTestSuite) TestShutdown() {
	suite.n.Shutdown()

	_, _, err := suite.n.Resolve(context.Background())
	suite.ErrorIs(err, netlib.ErrNetrunnerShutdown)

	_, err = suite.n.SelectBestServers(context.Background(), locationBerlin, 3)
	suite.ErrorIs(err, netlib.ErrNetrunnerShutdown)

	_, err = suite.n.Run(context.Background(), 3)
	suite.ErrorIs(err, netlib.ErrNetrunnerShutdown)
}

func TestNetrunner(t *testing.T) {
	suite.Run(t, &NetrunnerTestSuite{})
}
