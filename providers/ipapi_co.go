package providers

import (
	"context"

	"github.com/sorinirimies/netrunner-cli/netlib"
)

type ipapiCoResponse struct {
	Error       bool     `json:"error"`
	Reason      string   `json:"reason"`
	CountryName string   `json:"country_name"`
	CountryCode string   `json:"country_code"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Org         string   `json:"org"`
}

type ipapiCoProvider struct {
	client netlib.HTTPClient
}

func (i ipapiCoProvider) Name() string {
	return NameIPAPICo
}

func (i ipapiCoProvider) Lookup(ctx context.Context) (netlib.ProviderLookupResult, error) {
	result := netlib.ProviderLookupResult{}
	resp := ipapiCoResponse{}

	if err := fetchJSON(ctx, i.client, "https://ipapi.co/json/", nil, &resp); err != nil {
		return result, err
	}

	if resp.Error {
		return result, netlib.NewProviderError(netlib.ProviderErrorAPI, apiReason(resp.Reason), nil)
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
	result.ISP = resp.Org

	return result, nil
}

// NewIPAPICo returns a provider for https://ipapi.co. Free tier does
// not require any token but is limited to ~1000 requests per day.
func NewIPAPICo(client netlib.HTTPClient) netlib.Provider {
	return ipapiCoProvider{
		client: client,
	}
}
