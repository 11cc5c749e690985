package netlib

type staticServer struct {
	name      string
	endpoint  string
	location  string
	latitude  float64
	longitude float64
}

func (s staticServer) candidate(class GeoClass) ServerCandidate {
	return NewServerCandidate(s.name, s.endpoint, class, OriginStatic).
		WithCoordinate(s.latitude, s.longitude).
		WithLocation(s.location)
}

// Continent is a rough continent of the client. It is detected by
// coordinates only.
type Continent string

const (
	ContinentUnknown      Continent = ""
	ContinentNorthAmerica Continent = "North America"
	ContinentSouthAmerica Continent = "South America"
	ContinentEurope       Continent = "Europe"
	ContinentAfrica       Continent = "Africa"
	ContinentAsia         Continent = "Asia"
	ContinentOceania      Continent = "Oceania"
)

// DetectContinent maps coordinates to a continent using coarse bounding
// boxes. Boxes overlap so the order of checks matters.
func DetectContinent(coord Coordinate) Continent {
	lat, lon := coord.Latitude, coord.Longitude

	switch {
	case lat > 15 && lon > -130 && lon < -50:
		return ContinentNorthAmerica
	case lat < 15 && lat > -60 && lon > -85 && lon < -30:
		return ContinentSouthAmerica
	case lat > 35 && lon > -15 && lon < 60:
		return ContinentEurope
	case lat > -40 && lat < 40 && lon > -20 && lon < 55:
		return ContinentAfrica
	case lat > -15 && lon > 60 && lon < 180:
		return ContinentAsia
	case lat < -10 && lon > 110 && lon < 180:
		return ContinentOceania
	}

	return ContinentUnknown
}

var continentHubs = map[Continent][]staticServer{
	ContinentNorthAmerica: {
		{"US East Coast Hub", "https://ash.speedtest.wtnet.de", "Ashburn, USA", 39.0438, -77.4874},
		{"US West Coast Hub", "https://lax.speedtest.wtnet.de", "Los Angeles, USA", 34.0522, -118.2437},
	},
	ContinentEurope: {
		{"Europe Central Hub", "https://frankfurt.speedtest.wtnet.de", "Frankfurt, Germany", 50.1109, 8.6821},
		{"Europe West Hub", "https://lon.speedtest.wtnet.de", "London, UK", 51.5074, -0.1278},
	},
	ContinentAsia: {
		{"Asia Pacific Hub", "https://sg.speedtest.wtnet.de", "Singapore", 1.3521, 103.8198},
		{"Asia East Hub", "https://tokyo.speedtest.wtnet.de", "Tokyo, Japan", 35.6762, 139.6503},
	},
	ContinentSouthAmerica: {
		{"South America Hub", "https://saopaulo.speedtest.wtnet.de", "São Paulo, Brazil", -23.5505, -46.6333},
	},
	ContinentAfrica: {
		{"Africa Hub", "https://capetown.speedtest.wtnet.de", "Cape Town, South Africa", -33.9249, 18.4241},
	},
	ContinentOceania: {
		{"Oceania Hub", "https://syd.speedtest.wtnet.de", "Sydney, Australia", -33.8688, 151.2093},
	},
}

// keys are normalized ISO3166 alpha-2 codes.
var countryHubs = map[string]staticServer{
	"US": {"US Central", "https://dal.speedtest.wtnet.de", "Dallas, USA", 32.7767, -96.7970},
	"GB": {"UK Primary", "https://lon.speedtest.wtnet.de", "London, UK", 51.5074, -0.1278},
	"DE": {"DE Primary", "https://frankfurt.speedtest.wtnet.de", "Frankfurt, Germany", 50.1109, 8.6821},
	"FR": {"FR Primary", "https://paris.speedtest.wtnet.de", "Paris, France", 48.8566, 2.3522},
	"JP": {"JP Primary", "https://tyo.speedtest.wtnet.de", "Tokyo, Japan", 35.6762, 139.6503},
	"AU": {"AU Primary", "https://syd.speedtest.wtnet.de", "Sydney, Australia", -33.8688, 151.2093},
	"CA": {"CA Primary", "https://tor.speedtest.wtnet.de", "Toronto, Canada", 43.6532, -79.3832},
}

// worldwide list which is used if a dynamic directory has returned
// nothing. These are well-connected exchange points, so they are ranked
// as continental hubs.
var libreSpeedHubs = []staticServer{
	{"LibreSpeed DE-IX", "https://frankfurt.speedtest.wtnet.de", "Frankfurt, Germany", 50.1109, 8.6821},
	{"LibreSpeed AMS-IX", "https://ams.speedtest.wtnet.de", "Amsterdam, Netherlands", 52.3676, 4.9041},
	{"LibreSpeed Singapore", "https://sg.speedtest.wtnet.de", "Singapore", 1.3521, 103.8198},
	{"LibreSpeed New York", "https://nyc.speedtest.wtnet.de", "New York, USA", 40.7128, -74.0060},
	{"LibreSpeed Los Angeles", "https://la.speedtest.wtnet.de", "Los Angeles, USA", 34.0522, -118.2437},
	{"LibreSpeed Tokyo", "https://tyo.speedtest.wtnet.de", "Tokyo, Japan", 35.6762, 139.6503},
	{"LibreSpeed London", "https://lon.speedtest.wtnet.de", "London, UK", 51.5074, -0.1278},
	{"LibreSpeed Sydney", "https://syd.speedtest.wtnet.de", "Sydney, Australia", -33.8688, 151.2093},
}

// anycast CDNs have no meaningful coordinates.
func globalCDNServers() []ServerCandidate {
	return []ServerCandidate{
		NewServerCandidate("Cloudflare Global", "https://speed.cloudflare.com", GeoClassGlobal, OriginStatic).
			WithLocation("Global CDN"),
		NewServerCandidate("Google Global", "https://www.google.com", GeoClassBackup, OriginStatic).
			WithLocation("Global CDN"),
	}
}

func countryHubServers(loc Location) []ServerCandidate {
	code := NormalizeAlpha2Code(loc.CountryCode)
	if code == "" {
		code, _ = ResolveCountry(loc.Country, "")
	}

	hub, ok := countryHubs[code]
	if !ok {
		return nil
	}

	return []ServerCandidate{hub.candidate(GeoClassRegional)}
}

func continentHubServers(loc Location) []ServerCandidate {
	hubs := continentHubs[DetectContinent(loc.Coordinate())]
	rv := make([]ServerCandidate, 0, len(hubs))

	for _, v := range hubs {
		rv = append(rv, v.candidate(GeoClassContinental))
	}

	return rv
}

func libreSpeedServers() []ServerCandidate {
	rv := make([]ServerCandidate, 0, len(libreSpeedHubs))

	for _, v := range libreSpeedHubs {
		rv = append(rv, v.candidate(GeoClassContinental))
	}

	return rv
}
