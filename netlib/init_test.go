package netlib_test

import (
	"context"

	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context) (netlib.ProviderLookupResult, error) {
	args := m.Called(ctx)

	return args.Get(0).(netlib.ProviderLookupResult), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type DirectoryMock struct {
	mock.Mock
}

func (m *DirectoryMock) Nearby(ctx context.Context, loc netlib.Location) ([]netlib.ServerCandidate, error) {
	args := m.Called(ctx, loc)

	if value := args.Get(0); value != nil {
		return value.([]netlib.ServerCandidate), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *DirectoryMock) Name() string {
	return m.Called().String(0)
}

type PingerMock struct {
	mock.Mock
}

func (m *PingerMock) Ping(ctx context.Context, candidate netlib.ServerCandidate) error {
	return m.Called(ctx, candidate).Error(0)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) ProviderError(name string, err error) {
	m.Called(name, err)
}

func (m *LoggerMock) ProbeError(candidateID string, err error) {
	m.Called(candidateID, err)
}

func (m *LoggerMock) CatalogError(name string, err error) {
	m.Called(name, err)
}

var (
	locationBerlin = netlib.Location{
		Country:     "Germany",
		CountryCode: "DE",
		City:        "Berlin",
		Latitude:    52.52,
		Longitude:   13.405,
		Source:      "test",
	}

	lookupBerlin = netlib.ProviderLookupResult{
		Country:     "Germany",
		CountryCode: "DE",
		City:        "Berlin",
		Latitude:    52.52,
		Longitude:   13.405,
		ISP:         "Deutsche Telekom AG",
	}
)
