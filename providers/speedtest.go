package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sorinirimies/netrunner-cli/netlib"
)

const (
	speedtestEndpoint = "https://www.speedtest.net/api/js/servers?engine=js&limit=10"

	// SpeedtestMaxServers limits how many directory entries are taken
	// into account.
	SpeedtestMaxServers = 10
)

// speedtest.net is not consistent: coordinates come either as numbers
// or as strings. Unparseable value is treated as missing, such entry is
// skipped later.
type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(bytes.Trim(data, `"`))
	if raw == "" {
		return nil
	}

	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		f.value = &value
	}

	return nil
}

type speedtestServer struct {
	Host    string    `json:"host"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
	Sponsor string    `json:"sponsor"`
	Lat     flexFloat `json:"lat"`
	Lon     flexFloat `json:"lon"`
}

func (s speedtestServer) candidate() (netlib.ServerCandidate, bool) {
	host := strings.TrimSpace(s.Host)
	name := strings.TrimSpace(s.Name)
	country := strings.TrimSpace(s.Country)

	if host == "" || name == "" || country == "" || s.Lat.value == nil || s.Lon.value == nil {
		return netlib.ServerCandidate{}, false
	}

	coord := netlib.Coordinate{Latitude: *s.Lat.value, Longitude: *s.Lon.value}
	if !coord.InRange() {
		return netlib.ServerCandidate{}, false
	}

	label := name + ", " + country

	return netlib.NewServerCandidate(label, "https://"+host, netlib.GeoClassRegional, netlib.OriginDirectory).
		WithCoordinate(coord.Latitude, coord.Longitude).
		WithLocation(label), true
}

type speedtestDirectory struct {
	client netlib.HTTPClient
}

func (s speedtestDirectory) Name() string {
	return NameSpeedtest
}

// Nearby returns servers which speedtest.net considers close. The API
// detects a location by the address of the request so a given location
// is not sent anywhere.
func (s speedtestDirectory) Nearby(ctx context.Context, _ netlib.Location) ([]netlib.ServerCandidate, error) {
	resp, err := sendRequest(ctx, s.client, speedtestEndpoint, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return nil, err
	}

	defer flushResponse(resp.Body)

	servers := []speedtestServer{}

	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		return nil, netlib.NewProviderError(netlib.ProviderErrorParse, "cannot parse a response", err)
	}

	if len(servers) > SpeedtestMaxServers {
		servers = servers[:SpeedtestMaxServers]
	}

	rv := make([]netlib.ServerCandidate, 0, len(servers))

	for _, v := range servers {
		if candidate, ok := v.candidate(); ok {
			rv = append(rv, candidate)
		}
	}

	return rv, nil
}

// NewSpeedtest returns a directory of speedtest.net servers.
func NewSpeedtest(client netlib.HTTPClient) netlib.Directory {
	return speedtestDirectory{
		client: client,
	}
}
