package netlib

import (
	"fmt"
	"strings"
)

// some providers put this placeholder instead of an empty string.
const unknownPlaceholder = "unknown"

// ValidateLookup checks a raw provider answer. Every provider passes
// through the same set of rules: country and city have to be present,
// coordinates have to be within valid ranges and cannot be exactly
// (0, 0).
func ValidateLookup(res ProviderLookupResult) error {
	if isBlank(res.Country) {
		return NewProviderError(ProviderErrorValidation, "country is empty", nil)
	}

	if isBlank(res.City) {
		return NewProviderError(ProviderErrorValidation, "city is empty", nil)
	}

	coord := Coordinate{Latitude: res.Latitude, Longitude: res.Longitude}

	switch {
	case !coord.InRange():
		return NewProviderError(ProviderErrorValidation, outOfRangeMessage(coord), nil)
	case coord.IsNullIsland():
		return NewProviderError(ProviderErrorValidation, "coordinates are (0, 0)", nil)
	}

	return nil
}

// zero is always in range so each axis can be checked on its own.
func outOfRangeMessage(coord Coordinate) string {
	if !(Coordinate{Latitude: coord.Latitude}).InRange() {
		return fmt.Sprintf("latitude %v is out of range", coord.Latitude)
	}

	return fmt.Sprintf("longitude %v is out of range", coord.Longitude)
}

// NewLocation validates a provider answer and converts it into a
// Location attributed to a given source.
func NewLocation(res ProviderLookupResult, source string) (Location, error) {
	if err := ValidateLookup(res); err != nil {
		return Location{}, err
	}

	code, country := ResolveCountry(res.Country, res.CountryCode)

	return Location{
		Country:     country,
		CountryCode: code,
		City:        strings.TrimSpace(res.City),
		Latitude:    res.Latitude,
		Longitude:   res.Longitude,
		ISP:         strings.TrimSpace(res.ISP),
		Source:      source,
	}, nil
}

func isBlank(value string) bool {
	value = strings.TrimSpace(value)

	return value == "" || strings.EqualFold(value, unknownPlaceholder)
}
