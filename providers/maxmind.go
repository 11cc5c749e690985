package providers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/oschwald/maxminddb-golang"
	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/spf13/afero"
)

const maxmindTraceEndpoint = "https://www.cloudflare.com/cdn-cgi/trace"

type maxmindLookupResult struct {
	City struct {
		Names struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		IsoCode string `maxminddb:"iso_code"`
		Names   struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  *float64 `maxminddb:"latitude"`
		Longitude *float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
	Traits struct {
		ISP string `maxminddb:"isp"`
	} `maxminddb:"traits"`
}

type maxmindProvider struct {
	client       netlib.HTTPClient
	dbReader     *maxminddb.Reader
	dbReaderLock sync.RWMutex
}

func (m *maxmindProvider) Name() string {
	return NameMaxmind
}

func (m *maxmindProvider) Lookup(ctx context.Context) (netlib.ProviderLookupResult, error) {
	rv := netlib.ProviderLookupResult{}

	if !m.ready() {
		return rv, ErrDatabaseIsNotReadyYet
	}

	ip, err := m.clientAddress(ctx)
	if err != nil {
		return rv, err
	}

	m.dbReaderLock.RLock()
	defer m.dbReaderLock.RUnlock()

	if m.dbReader == nil {
		return rv, ErrDatabaseIsNotReadyYet
	}

	record := maxmindLookupResult{}

	if err := m.dbReader.Lookup(ip, &record); err != nil {
		return rv, netlib.NewProviderError(netlib.ProviderErrorParse,
			"cannot lookup this ip address", err)
	}

	lat, lon, err := parseCoordinates(record.Location.Latitude, record.Location.Longitude)
	if err != nil {
		return rv, err
	}

	rv.Country = record.Country.Names.En
	rv.CountryCode = strings.ToUpper(record.Country.IsoCode)
	rv.City = record.City.Names.En
	rv.Latitude = lat
	rv.Longitude = lon
	rv.ISP = record.Traits.ISP

	return rv, nil
}

func (m *maxmindProvider) ready() bool {
	m.dbReaderLock.RLock()
	defer m.dbReaderLock.RUnlock()

	return m.dbReader != nil
}

// offline database knows nothing about NAT so we have to ask somebody
// which address we have.
func (m *maxmindProvider) clientAddress(ctx context.Context) (net.IP, error) {
	resp, err := sendRequest(ctx, m.client, maxmindTraceEndpoint, nil)
	if err != nil {
		return nil, err
	}

	defer flushResponse(resp.Body)

	return parseTraceAddress(resp.Body)
}

func (m *maxmindProvider) Close() error {
	m.dbReaderLock.Lock()
	defer m.dbReaderLock.Unlock()

	if m.dbReader == nil {
		return nil
	}

	err := m.dbReader.Close()
	m.dbReader = nil

	return err
}

func parseTraceAddress(body io.Reader) (net.IP, error) {
	scanner := bufio.NewScanner(body)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if value := strings.TrimPrefix(line, "ip="); value != line {
			if ip := net.ParseIP(value); ip != nil {
				return ip, nil
			}

			return nil, netlib.NewProviderError(netlib.ProviderErrorParse,
				fmt.Sprintf("incorrect ip address %q", value), nil)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, netlib.NewProviderError(netlib.ProviderErrorParse, "cannot read a response", err)
	}

	return nil, ErrNoClientAddress
}

// NewMaxmind opens a MaxMind-format City database (GeoLite2-City,
// dbip-city-lite and similar). The whole file is loaded into memory.
// Provider has to be closed after use.
func NewMaxmind(client netlib.HTTPClient, fs afero.Fs, dbPath string) (netlib.Provider, error) {
	if dbPath == "" {
		return nil, ErrDatabasePathIsRequired
	}

	content, err := afero.ReadFile(fs, dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read a database file: %w", err)
	}

	reader, err := maxminddb.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a reader of maxminddb: %w", err)
	}

	return &maxmindProvider{
		client:   client,
		dbReader: reader,
	}, nil
}
