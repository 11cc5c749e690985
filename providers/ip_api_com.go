package providers

import (
	"context"

	"github.com/sorinirimies/netrunner-cli/netlib"
)

const ipAPIComEndpoint = "http://ip-api.com/json/?fields=status,message,country,countryCode,city,lat,lon,isp"

type ipAPIComResponse struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	City        string   `json:"city"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	ISP         string   `json:"isp"`
}

type ipAPIComProvider struct {
	client netlib.HTTPClient
}

func (i ipAPIComProvider) Name() string {
	return NameIPAPICom
}

func (i ipAPIComProvider) Lookup(ctx context.Context) (netlib.ProviderLookupResult, error) {
	result := netlib.ProviderLookupResult{}
	resp := ipAPIComResponse{}

	if err := fetchJSON(ctx, i.client, ipAPIComEndpoint, nil, &resp); err != nil {
		return result, err
	}

	if resp.Status != "success" {
		return result, netlib.NewProviderError(netlib.ProviderErrorAPI, apiReason(resp.Message), nil)
	}

	lat, lon, err := parseCoordinates(resp.Lat, resp.Lon)
	if err != nil {
		return result, err
	}

	result.Country = resp.Country
	result.CountryCode = resp.CountryCode
	result.City = resp.City
	result.Latitude = lat
	result.Longitude = lon
	result.ISP = resp.ISP

	return result, nil
}

// NewIPAPICom returns a provider for http://ip-api.com. Free endpoint
// is plain HTTP only.
func NewIPAPICom(client netlib.HTTPClient) netlib.Provider {
	return ipAPIComProvider{
		client: client,
	}
}
