package netlib

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/sorinirimies/netrunner-cli/observability"
)

const (
	// DefaultProviderTimeout bounds a single provider lookup.
	DefaultProviderTimeout = 5 * time.Second

	// FallbackSource is a source of the location which is used when
	// every provider has failed.
	FallbackSource = "fallback"
)

// FallbackLocation is a geographic center of continental USA. It is
// returned when nothing else works.
var FallbackLocation = Location{
	Country:     "United States",
	CountryCode: "US",
	City:        "Kansas City",
	Latitude:    39.0997,
	Longitude:   -94.5786,
	Source:      FallbackSource,
}

// ResolverOpts are options of Resolver. Everything except Providers is
// optional.
type ResolverOpts struct {
	Providers []Provider
	Logger    Logger
	Metrics   *observability.Metrics
	Timeout   time.Duration
	Debug     bool
}

// Resolver tries providers one by one in a given order. An order is a
// preference: providers in the beginning are more precise or more
// reliable so they are never queried in parallel.
type Resolver struct {
	providers []Provider
	stats     []*UsageStats
	logger    Logger
	metrics   *observability.Metrics
	timeout   time.Duration
	debug     bool
}

// Resolve returns a location of the client. This method never fails:
// if every provider is broken, it returns FallbackLocation and true as
// a second value.
func (r *Resolver) Resolve(ctx context.Context) (Location, bool) {
	var failures error

	for i, provider := range r.providers {
		if ctx.Err() != nil {
			failures = multierr.Append(failures,
				fmt.Errorf("%s: %w", provider.Name(), ErrContextIsClosed))

			break
		}

		loc, err := r.attempt(ctx, provider)
		r.stats[i].Used(err)

		if err == nil {
			return loc, false
		}

		failures = multierr.Append(failures, err)

		if r.debug {
			r.logger.ProviderError(provider.Name(), err)
		}
	}

	if r.debug {
		r.logger.ProviderError(FallbackSource,
			fmt.Errorf("all %d providers failed: %w", len(multierr.Errors(failures)), failures))
	}

	r.metrics.ObserveFallback()

	return FallbackLocation, true
}

func (r *Resolver) attempt(ctx context.Context, provider Provider) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	res, err := provider.Lookup(ctx)

	if err == nil {
		res, err = r.validate(res, provider.Name())
	}

	if err != nil {
		provErr := classifyProviderError(provider.Name(), err)
		r.metrics.ObserveProvider(provider.Name(), provErr.Kind.String(), time.Since(started))

		return Location{}, provErr
	}

	r.metrics.ObserveProvider(provider.Name(), "ok", time.Since(started))

	loc, _ := NewLocation(res, provider.Name())

	return loc, nil
}

func (r *Resolver) validate(res ProviderLookupResult, name string) (ProviderLookupResult, error) {
	if err := ValidateLookup(res); err != nil {
		return res, fmt.Errorf("provider %s has returned invalid data: %w", name, err)
	}

	return res, nil
}

// Stats returns usage statistics of providers in the order of the
// chain.
func (r *Resolver) Stats() []*UsageStats {
	return r.stats
}

func classifyProviderError(name string, err error) *ProviderError {
	var provErr *ProviderError

	if errors.As(err, &provErr) {
		rv := *provErr
		rv.Provider = name

		// deadline may be hit in the middle of reading a body so
		// the provider reports it as a parse failure.
		if isTimeout(err) {
			rv.Kind = ProviderErrorTimeout
		}

		return &rv
	}

	kind := ProviderErrorTransport

	if isTimeout(err) {
		kind = ProviderErrorTimeout
	}

	rv := NewProviderError(kind, "", err)
	rv.Provider = name

	return rv
}

// NewResolver creates a new resolver for a given chain of providers.
func NewResolver(opts ResolverOpts) *Resolver {
	rv := &Resolver{
		providers: opts.Providers,
		stats:     make([]*UsageStats, 0, len(opts.Providers)),
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		timeout:   opts.Timeout,
		debug:     opts.Debug,
	}

	if rv.logger == nil {
		rv.logger = NoopLogger()
	}

	if rv.timeout <= 0 {
		rv.timeout = DefaultProviderTimeout
	}

	for _, v := range opts.Providers {
		rv.stats = append(rv.stats, &UsageStats{Name: v.Name()})
	}

	return rv
}
