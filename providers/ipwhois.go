package providers

import (
	"context"

	"github.com/sorinirimies/netrunner-cli/netlib"
)

type ipwhoisResponse struct {
	Success     *bool    `json:"success"`
	Message     string   `json:"message"`
	Country     string   `json:"country"`
	CountryCode string   `json:"country_code"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Connection  struct {
		ISP string `json:"isp"`
	} `json:"connection"`
}

type ipwhoisProvider struct {
	client netlib.HTTPClient
}

func (i ipwhoisProvider) Name() string {
	return NameIPWhois
}

func (i ipwhoisProvider) Lookup(ctx context.Context) (netlib.ProviderLookupResult, error) {
	result := netlib.ProviderLookupResult{}
	resp := ipwhoisResponse{}

	if err := fetchJSON(ctx, i.client, "https://ipwho.is/", nil, &resp); err != nil {
		return result, err
	}

	// missing success flag is a failure as well
	if resp.Success == nil || !*resp.Success {
		return result, netlib.NewProviderError(netlib.ProviderErrorAPI, apiReason(resp.Message), nil)
	}

	lat, lon, err := parseCoordinates(resp.Latitude, resp.Longitude)
	if err != nil {
		return result, err
	}

	result.Country = resp.Country
	result.CountryCode = resp.CountryCode
	result.City = resp.City
	result.Latitude = lat
	result.Longitude = lon
	result.ISP = resp.Connection.ISP

	return result, nil
}

func NewIPWhois(client netlib.HTTPClient) netlib.Provider {
	return ipwhoisProvider{
		client: client,
	}
}
