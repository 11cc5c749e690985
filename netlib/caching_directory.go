package netlib

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/sorinirimies/netrunner-cli/observability"
)

// coordinates are rounded to ~11 km: the same neighbourhood gets the
// same set of nearby servers.
const cachingDirectoryPrecision = 1

type cachingDirectory struct {
	Directory

	cache   *ristretto.Cache
	ttl     time.Duration
	metrics *observability.Metrics
}

func (c cachingDirectory) Nearby(ctx context.Context, loc Location) ([]ServerCandidate, error) {
	cacheKey := fmt.Sprintf("%v:%v",
		roundTo(loc.Latitude, cachingDirectoryPrecision),
		roundTo(loc.Longitude, cachingDirectoryPrecision))

	if value, ok := c.cache.Get(cacheKey); ok {
		c.metrics.ObserveDirectory("cache_hit")

		return copyCandidates(value.([]ServerCandidate)), nil
	}

	result, err := c.Directory.Nearby(ctx, loc)
	if err != nil || len(result) == 0 {
		return result, err
	}

	c.cache.SetWithTTL(cacheKey, copyCandidates(result), 1, c.ttl)

	return result, nil
}

// cached slice is shared between concurrent callers: nobody is allowed
// to write into its backing array.
func copyCandidates(candidates []ServerCandidate) []ServerCandidate {
	return append([]ServerCandidate(nil), candidates...)
}

// NewCachingDirectory wraps a directory with in-memory cache. Only
// non-empty successful answers are cached. This is useful in monitor
// mode where the same location is resolved again and again.
func NewCachingDirectory(directory Directory,
	itemsCount uint,
	ttl time.Duration,
	metrics *observability.Metrics) Directory {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		panic(err)
	}

	return cachingDirectory{
		Directory: directory,
		cache:     cache,
		ttl:       ttl,
		metrics:   metrics,
	}
}
