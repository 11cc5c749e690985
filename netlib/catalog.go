package netlib

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/sorinirimies/netrunner-cli/observability"
)

// DefaultMaxCandidates limits how many candidates are going to be
// probed.
const DefaultMaxCandidates = 20

// CatalogOpts are options of Catalog. Directory is optional: without it
// catalog works with static servers only.
type CatalogOpts struct {
	Directory     Directory
	ExtraServers  []ServerCandidate
	MaxCandidates int
	Logger        Logger
	Metrics       *observability.Metrics
	Debug         bool
}

// Catalog assembles a list of candidates for a given location.
type Catalog struct {
	directory     Directory
	extraServers  []ServerCandidate
	maxCandidates int
	logger        Logger
	metrics       *observability.Metrics
	debug         bool
}

// Build returns candidates sorted by distance from the client. This
// method never fails and never returns an empty list: static servers
// are always there and at least one global server is always kept.
//
// Deduplication keeps the first occurrence, so the order of sources
// matters: built-in global CDNs go first and cannot be shadowed by
// config, the worldwide fallback list goes last and cannot shadow
// country or continent hubs.
func (c *Catalog) Build(ctx context.Context, loc Location) []ServerCandidate {
	dynamic, ok := c.dynamicServers(ctx, loc)

	// a directory may share its backing array between calls.
	candidates := make([]ServerCandidate, 0, len(dynamic)+len(c.extraServers)+len(libreSpeedHubs)+8)
	candidates = append(candidates, globalCDNServers()...)

	if ok {
		candidates = append(candidates, dynamic...)
	}

	candidates = append(candidates, c.extraServers...)
	candidates = append(candidates, countryHubServers(loc)...)
	candidates = append(candidates, continentHubServers(loc)...)

	if !ok {
		candidates = append(candidates, libreSpeedServers()...)
	}

	candidates = Deduplicate(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return CandidateDistanceKm(loc, candidates[i]) < CandidateDistanceKm(loc, candidates[j])
	})

	candidates = truncateCandidates(candidates, c.maxCandidates)

	c.metrics.ObserveCatalog(len(candidates))

	return candidates
}

func (c *Catalog) dynamicServers(ctx context.Context, loc Location) ([]ServerCandidate, bool) {
	if c.directory == nil {
		return nil, false
	}

	servers, err := c.directory.Nearby(ctx, loc)

	switch {
	case err != nil:
		c.metrics.ObserveDirectory("error")
	case len(servers) == 0:
		c.metrics.ObserveDirectory("empty")
	default:
		c.metrics.ObserveDirectory("ok")

		return servers, true
	}

	if c.debug {
		c.logger.CatalogError(c.directory.Name(), &CatalogError{
			Kind: CatalogErrorEmptyDynamicSet,
			err:  err,
		})
	}

	return nil, false
}

// Deduplicate removes candidates with the same endpoint identity. The
// first occurrence wins, order is preserved.
func Deduplicate(candidates []ServerCandidate) []ServerCandidate {
	seen := make(map[string]bool, len(candidates))
	rv := make([]ServerCandidate, 0, len(candidates))

	for _, v := range candidates {
		key := EndpointKey(v.Endpoint)

		if seen[key] {
			continue
		}

		seen[key] = true

		rv = append(rv, v)
	}

	return rv
}

// at least one global candidate has to survive truncation: anycast CDN
// is the last resort if every nearby server is dead.
func truncateCandidates(candidates []ServerCandidate, limit int) []ServerCandidate {
	if limit < 1 || len(candidates) <= limit {
		return candidates
	}

	rv := candidates[:limit:limit]

	for _, v := range rv {
		if v.Class == GeoClassGlobal {
			return rv
		}
	}

	for _, v := range candidates[limit:] {
		if v.Class == GeoClassGlobal {
			rv[limit-1] = v

			break
		}
	}

	return rv
}

// EndpointKey returns an identity of the endpoint: scheme, lowercased
// host with port and a path without trailing slash.
func EndpointKey(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return strings.TrimRight(strings.ToLower(endpoint), "/")
	}

	return fmt.Sprintf("%s://%s%s",
		strings.ToLower(parsed.Scheme),
		strings.ToLower(parsed.Host),
		strings.TrimRight(parsed.EscapedPath(), "/"))
}

// NewCatalog creates a new catalog.
func NewCatalog(opts CatalogOpts) *Catalog {
	rv := &Catalog{
		directory:     opts.Directory,
		extraServers:  opts.ExtraServers,
		maxCandidates: opts.MaxCandidates,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		debug:         opts.Debug,
	}

	if rv.logger == nil {
		rv.logger = NoopLogger()
	}

	if rv.maxCandidates <= 0 {
		rv.maxCandidates = DefaultMaxCandidates
	}

	return rv
}
