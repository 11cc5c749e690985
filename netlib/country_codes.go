package netlib

import (
	"strings"

	"github.com/pariz/gountries"
)

var countryCodeQuery = gountries.New()

// NormalizeAlpha2Code returns a normalized 2-letter ISO3166 code.
// Normalized code is uppercased with some additional mapping. For
// example, some providers return ZZ as 'unknown' country. This function
// returns "" instead. UK is mapped to GB and so on.
func NormalizeAlpha2Code(alpha2 string) string {
	alpha2 = strings.ToUpper(strings.TrimSpace(alpha2))

	if len(alpha2) != 2 {
		return ""
	}

	switch alpha2 {
	case "ZZ", "AP", "EU", "XX":
		return ""
	case "YU":
		return "CS"
	case "FX":
		return "FR"
	case "UK":
		return "GB"
	default:
		return alpha2
	}
}

// ResolveCountry returns ISO3166 alpha-2 code and a display name of the
// country reported by a provider. Providers are inconsistent here: some
// of them return names, some return codes, some return both. If nothing
// is known about a country, code is empty and the name is returned as
// is.
func ResolveCountry(country, code string) (string, string) {
	country = strings.TrimSpace(country)

	if alpha2 := lookupAlpha2(code); alpha2 != "" {
		return alpha2, countryDisplayName(alpha2, country)
	}

	if alpha2 := lookupAlpha2(country); alpha2 != "" {
		return alpha2, countryDisplayName(alpha2, country)
	}

	if details, err := countryCodeQuery.FindCountryByName(country); err == nil {
		return NormalizeAlpha2Code(details.Alpha2), country
	}

	return "", country
}

func lookupAlpha2(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	switch len(code) {
	case 2:
		code = NormalizeAlpha2Code(code)
	case 3:
		code = NormalizeAlpha2Code(countryCodeQuery.Alpha3ToAlpha2[code])
	default:
		return ""
	}

	if _, ok := countryCodeQuery.Countries[code]; !ok {
		return ""
	}

	return code
}

// country can be given as a code. In that case a common name is more
// useful for humans.
func countryDisplayName(alpha2, country string) string {
	if country != "" && lookupAlpha2(country) == "" {
		return country
	}

	if details, ok := countryCodeQuery.Countries[alpha2]; ok && details.Name.Common != "" {
		return details.Name.Common
	}

	return country
}
