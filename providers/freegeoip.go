package providers

import (
	"context"

	"github.com/sorinirimies/netrunner-cli/netlib"
)

type freegeoipResponse struct {
	CountryName string   `json:"country_name"`
	CountryCode string   `json:"country_code"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type freegeoipProvider struct {
	client netlib.HTTPClient
}

func (f freegeoipProvider) Name() string {
	return NameFreeGeoIP
}

func (f freegeoipProvider) Lookup(ctx context.Context) (netlib.ProviderLookupResult, error) {
	result := netlib.ProviderLookupResult{}
	resp := freegeoipResponse{}

	if err := fetchJSON(ctx, f.client, "https://freegeoip.app/json/", nil, &resp); err != nil {
		return result, err
	}

	lat, lon, err := parseCoordinates(resp.Latitude, resp.Longitude)
	if err != nil {
		return result, err
	}

	result.Country = resp.CountryName
	result.CountryCode = resp.CountryCode
	result.City = resp.City
	result.Latitude = lat
	result.Longitude = lon

	return result, nil
}

func NewFreeGeoIP(client netlib.HTTPClient) netlib.Provider {
	return freegeoipProvider{
		client: client,
	}
}
