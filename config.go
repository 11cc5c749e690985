package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/hjson/hjson-go/v4"
	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/sorinirimies/netrunner-cli/providers"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxServers           = 3
	DefaultDeadline             = 60 * time.Second
	DefaultHTTPTimeout          = 10 * time.Second
	DefaultRateLimitInterval    = 100 * time.Millisecond
	DefaultRateLimitBurst       = 10
	DefaultDirectoryCacheSize   = 128
	DefaultDirectoryCacheTTL    = 10 * time.Minute
	DefaultDirectoryHTTPTimeout = 5 * time.Second
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	if dur < 0 {
		return fmt.Errorf("duration cannot be negative: %s", vv)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Debug           bool             `json:"debug"`
	MaxServers      uint             `json:"max_servers"`
	Deadline        duration         `json:"deadline"`
	Interval        duration         `json:"interval"`
	Listen          string           `json:"listen"`
	MetricsFile     string           `json:"metrics_file"`
	ProviderTimeout duration         `json:"provider_timeout"`
	MaxCandidates   uint             `json:"max_candidates"`
	UserAgent       string           `json:"user_agent"`
	Probe           configProbe      `json:"probe"`
	Directory       configDirectory  `json:"directory"`
	BasicAuth       configBasicAuth  `json:"basic_auth"`
	Providers       []configProvider `json:"providers"`
	Servers         []configServer   `json:"servers"`
}

func (c config) GetMaxServers() int {
	if c.MaxServers == 0 {
		return DefaultMaxServers
	}

	return int(c.MaxServers)
}

func (c config) GetDeadline() time.Duration {
	if c.Deadline.Duration == 0 {
		return DefaultDeadline
	}

	return c.Deadline.Duration
}

func (c config) GetInterval() time.Duration {
	return c.Interval.Duration
}

func (c config) GetListen() string {
	return c.Listen
}

func (c config) GetMetricsFile() string {
	return c.MetricsFile
}

func (c config) GetProviderTimeout() time.Duration {
	if c.ProviderTimeout.Duration == 0 {
		return netlib.DefaultProviderTimeout
	}

	return c.ProviderTimeout.Duration
}

func (c config) GetMaxCandidates() int {
	if c.MaxCandidates == 0 {
		return netlib.DefaultMaxCandidates
	}

	return int(c.MaxCandidates)
}

func (c config) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}

	return "netrunner/" + version
}

// GetProviders returns a configured chain. If nothing is configured,
// all online providers are used in a default order.
func (c config) GetProviders() []configProvider {
	if len(c.Providers) > 0 {
		return c.Providers
	}

	rv := make([]configProvider, len(providers.DefaultChain))

	for i, v := range providers.DefaultChain {
		rv[i] = configProvider{Name: v}
	}

	return rv
}

func (c config) GetServers() []configServer {
	return c.Servers
}

type configProbe struct {
	Concurrency   uint     `json:"concurrency"`
	Samples       uint     `json:"samples"`
	SampleTimeout duration `json:"sample_timeout"`
}

func (c configProbe) GetConcurrency() int {
	if c.Concurrency == 0 {
		return netlib.DefaultProbeConcurrency
	}

	return int(c.Concurrency)
}

func (c configProbe) GetSamples() int {
	if c.Samples == 0 {
		return netlib.DefaultProbeSamples
	}

	return int(c.Samples)
}

func (c configProbe) GetSampleTimeout() time.Duration {
	if c.SampleTimeout.Duration == 0 {
		return netlib.DefaultProbeSampleTimeout
	}

	return c.SampleTimeout.Duration
}

type configDirectory struct {
	Disabled    bool     `json:"disabled"`
	HTTPTimeout duration `json:"http_timeout"`
	CacheSize   uint     `json:"cache_size"`
	CacheTTL    duration `json:"cache_ttl"`
}

func (c configDirectory) GetEnabled() bool {
	return !c.Disabled
}

func (c configDirectory) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultDirectoryHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configDirectory) GetCacheSize() uint {
	if c.CacheSize == 0 {
		return DefaultDirectoryCacheSize
	}

	return c.CacheSize
}

func (c configDirectory) GetCacheTTL() time.Duration {
	if c.CacheTTL.Duration == 0 {
		return DefaultDirectoryCacheTTL
	}

	return c.CacheTTL.Duration
}

type configBasicAuth struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (c configBasicAuth) GetEnabled() bool {
	return c.User != ""
}

type configProvider struct {
	Name              string   `json:"name"`
	AuthToken         string   `json:"auth_token"`
	DBPath            string   `json:"db_path"`
	RateLimitInterval duration `json:"rate_limit_interval"`
	RateLimitBurst    uint     `json:"rate_limit_burst"`
	HTTPTimeout       duration `json:"http_timeout"`
}

func (c configProvider) GetName() string {
	return c.Name
}

func (c configProvider) GetAuthToken() string {
	return c.AuthToken
}

func (c configProvider) GetDBPath() string {
	return c.DBPath
}

func (c configProvider) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configProvider) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c configProvider) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

type configServer struct {
	Name      string   `json:"name"`
	Endpoint  string   `json:"endpoint"`
	Class     string   `json:"class"`
	Weight    *float64 `json:"weight"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Location  string   `json:"location"`
}

// ToCandidate converts a validated server into a candidate. Class
// defaults to regional.
func (c configServer) ToCandidate() (netlib.ServerCandidate, error) {
	class := netlib.GeoClassRegional

	if c.Class != "" {
		parsed, err := netlib.ParseGeoClass(c.Class)
		if err != nil {
			return netlib.ServerCandidate{}, err
		}

		class = parsed
	}

	name := c.Name
	if name == "" {
		name = c.Endpoint
	}

	rv := netlib.NewServerCandidate(name, c.Endpoint, class, netlib.OriginStatic).
		WithLocation(c.Location)

	if c.Weight != nil {
		rv = rv.WithWeight(*c.Weight)
	}

	if c.Latitude != nil && c.Longitude != nil {
		rv = rv.WithCoordinate(*c.Latitude, *c.Longitude)
	}

	return rv, nil
}

func (c configServer) validate() error {
	parsed, err := url.Parse(c.Endpoint)

	switch {
	case err != nil:
		return fmt.Errorf("incorrect endpoint %s: %w", c.Endpoint, err)
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		return fmt.Errorf("endpoint %s has to be http or https", c.Endpoint)
	case parsed.Host == "":
		return fmt.Errorf("endpoint %s has no host", c.Endpoint)
	case c.Weight != nil && *c.Weight <= 0:
		return fmt.Errorf("weight of %s has to be positive", c.Endpoint)
	case (c.Latitude == nil) != (c.Longitude == nil):
		return fmt.Errorf("both latitude and longitude of %s have to be set", c.Endpoint)
	}

	if c.Latitude != nil {
		coord := netlib.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}
		if !coord.InRange() {
			return fmt.Errorf("coordinates %v of %s are out of range", coord, c.Endpoint)
		}
	}

	if _, err := c.ToCandidate(); err != nil {
		return fmt.Errorf("incorrect server %s: %w", c.Endpoint, err)
	}

	return nil
}

// parseConfig reads HJSON or YAML file. Empty path means that defaults
// are used.
func parseConfig(fs afero.Fs, path string) (*config, error) {
	conf := config{}

	if path == "" {
		return &conf, nil
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	rawMap := map[string]interface{}{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &rawMap); err != nil {
			return nil, fmt.Errorf("cannot parse yaml: %w", err)
		}
	default:
		if err := hjson.Unmarshal(content, &rawMap); err != nil {
			return nil, fmt.Errorf("cannot parse json: %w", err)
		}
	}

	rawBytes, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("cannot normalize config: %w", err)
	}

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, fmt.Errorf("incorrect config: %w", err)
	}

	if err := validateConfig(&conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func validateConfig(conf *config) error {
	if conf.Listen != "" {
		if _, _, err := net.SplitHostPort(conf.Listen); err != nil {
			return fmt.Errorf("incorrect host:port for listen: %w", err)
		}
	}

	if conf.BasicAuth.User == "" && conf.BasicAuth.Password != "" {
		return fmt.Errorf("basic auth password is set without a user")
	}

	seenProviderNames := map[string]struct{}{}

	for _, v := range conf.Providers {
		if _, ok := seenProviderNames[v.GetName()]; ok {
			return fmt.Errorf("provider %s is duplicated", v.GetName())
		}

		seenProviderNames[v.GetName()] = struct{}{}

		switch v.GetName() {
		case providers.NameIPAPICo, providers.NameIPAPICom, providers.NameIPInfo,
			providers.NameFreeGeoIP, providers.NameIPWhois:
		case providers.NameMaxmind:
			if v.GetDBPath() == "" {
				return fmt.Errorf("provider %s: %w", v.GetName(), providers.ErrDatabasePathIsRequired)
			}
		default:
			return fmt.Errorf("unsupported provider name: %s", v.GetName())
		}
	}

	for _, v := range conf.Servers {
		if err := v.validate(); err != nil {
			return err
		}
	}

	return nil
}
