package providers

const (
	// Identifier for ipapi.co.
	NameIPAPICo = "ipapi_co"

	// Identifier for ip-api.com.
	NameIPAPICom = "ip_api_com"

	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo"

	// Identifier for freegeoip.app.
	NameFreeGeoIP = "freegeoip"

	// Identifier for ipwho.is.
	NameIPWhois = "ipwhois"

	// Identifier for offline MaxMind-format City databases.
	NameMaxmind = "maxmind"

	// Identifier for speedtest.net server directory.
	NameSpeedtest = "speedtest"
)

// DefaultChain is an order in which online providers are queried if
// nothing else is configured. First providers are more precise.
var DefaultChain = []string{
	NameIPAPICo,
	NameIPAPICom,
	NameIPInfo,
	NameFreeGeoIP,
	NameIPWhois,
}
