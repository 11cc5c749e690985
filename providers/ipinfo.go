package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sorinirimies/netrunner-cli/netlib"
)

type ipinfoResponse struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
	Org     string `json:"org"`
	Error   *struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}

type ipinfoProvider struct {
	authToken string
	client    netlib.HTTPClient
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) Lookup(ctx context.Context) (netlib.ProviderLookupResult, error) {
	result := netlib.ProviderLookupResult{}
	headers := map[string]string{}

	if i.authToken != "" {
		headers["Authorization"] = "Bearer " + i.authToken
	}

	resp := ipinfoResponse{}

	if err := fetchJSON(ctx, i.client, "https://ipinfo.io/json", headers, &resp); err != nil {
		return result, err
	}

	if resp.Error != nil {
		return result, netlib.NewProviderError(netlib.ProviderErrorAPI, apiReason(resp.Error.Message), nil)
	}

	lat, lon, err := parseLocPair(resp.Loc)
	if err != nil {
		return result, err
	}

	// ipinfo puts alpha-2 code into the country field.
	result.Country = resp.Country
	result.CountryCode = resp.Country
	result.City = resp.City
	result.Latitude = lat
	result.Longitude = lon
	result.ISP = resp.Org

	return result, nil
}

func parseLocPair(loc string) (float64, float64, error) {
	chunks := strings.Split(loc, ",")
	if len(chunks) != 2 {
		return 0, 0, netlib.NewProviderError(netlib.ProviderErrorParse,
			fmt.Sprintf("incorrect coordinates format %q", loc), nil)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(chunks[0]), 64)
	if err != nil {
		return 0, 0, netlib.NewProviderError(netlib.ProviderErrorParse, "cannot parse latitude", err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(chunks[1]), 64)
	if err != nil {
		return 0, 0, netlib.NewProviderError(netlib.ProviderErrorParse, "cannot parse longitude", err)
	}

	return lat, lon, nil
}

// NewIPInfo returns a provider for https://ipinfo.io. Token is optional,
// anonymous requests are allowed but heavily rate limited.
func NewIPInfo(client netlib.HTTPClient, authToken string) netlib.Provider {
	return ipinfoProvider{
		authToken: authToken,
		client:    client,
	}
}
