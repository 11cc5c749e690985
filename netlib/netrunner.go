package netlib

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sorinirimies/netrunner-cli/observability"
)

// Opts are options for Netrunner. Providers and Pinger are mandatory,
// everything else has reasonable defaults.
type Opts struct {
	Providers          []Provider
	Directory          Directory
	ExtraServers       []ServerCandidate
	Pinger             Pinger
	Clock              clockwork.Clock
	Logger             Logger
	Metrics            *observability.Metrics
	ProviderTimeout    time.Duration
	MaxCandidates      int
	ProbeConcurrency   int
	ProbeSamples       int
	ProbeSampleTimeout time.Duration
	Debug              bool
}

// Report is a full story of a single run: where client is, what was
// considered and what was selected.
type Report struct {
	RunID           string             `json:"run_id"`
	StartedAt       time.Time          `json:"started_at"`
	Location        Location           `json:"location"`
	Fallback        bool               `json:"fallback"`
	Candidates      []ServerCandidate  `json:"candidates"`
	Probes          []ProbeResult      `json:"probes"`
	Selected        []ScoredServer     `json:"selected"`
	SmoothedLatency map[string]float64 `json:"smoothed_latency_ms,omitempty"`
	Providers       []*UsageStats      `json:"providers"`
}

// Netrunner resolves a location of the client and selects the best test
// servers for it. It is safe to use it concurrently.
type Netrunner struct {
	resolver  *Resolver
	catalog   *Catalog
	prober    *Prober
	providers []Provider
	metrics   *observability.Metrics
	rwmutex   sync.RWMutex
	closeOnce sync.Once
	closed    bool
}

// Resolve returns a location of the client. A second value tells if
// fallback location was used. Resolution never fails, an error is
// returned only if Netrunner is shut down.
func (n *Netrunner) Resolve(ctx context.Context) (Location, bool, error) {
	n.rwmutex.RLock()
	defer n.rwmutex.RUnlock()

	if n.closed {
		return Location{}, false, ErrNetrunnerShutdown
	}

	loc, fallback := n.resolver.Resolve(ctx)

	return loc, fallback, nil
}

// SelectBestServers returns up to maxCount reachable servers ordered by
// their quality. If nothing is reachable, ErrNoReachableServers is
// returned.
func (n *Netrunner) SelectBestServers(ctx context.Context, loc Location, maxCount int) ([]ScoredServer, error) {
	n.rwmutex.RLock()
	defer n.rwmutex.RUnlock()

	if n.closed {
		return nil, ErrNetrunnerShutdown
	}

	_, _, selected, err := n.selectBestServers(ctx, loc, maxCount)

	return selected, err
}

// Run resolves a location and selects servers for it. Report is filled
// even if selection has failed.
func (n *Netrunner) Run(ctx context.Context, maxCount int) (Report, error) {
	n.rwmutex.RLock()
	defer n.rwmutex.RUnlock()

	report := Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}

	if n.closed {
		return report, ErrNetrunnerShutdown
	}

	n.metrics.ObserveRun()

	report.Location, report.Fallback = n.resolver.Resolve(ctx)
	report.Providers = n.resolver.Stats()

	candidates, probes, selected, err := n.selectBestServers(ctx, report.Location, maxCount)

	report.Candidates = candidates
	report.Selected = selected
	report.Probes = make([]ProbeResult, 0, len(candidates))
	report.SmoothedLatency = map[string]float64{}

	for _, v := range candidates {
		report.Probes = append(report.Probes, probes[v.ID])
	}

	for _, v := range selected {
		if value, ok := n.prober.SmoothedLatency(v.Candidate.ID); ok {
			report.SmoothedLatency[v.Candidate.ID] = value
		}
	}

	if err != nil {
		return report, fmt.Errorf("cannot select servers: %w", err)
	}

	return report, nil
}

func (n *Netrunner) selectBestServers(ctx context.Context,
	loc Location,
	maxCount int) ([]ServerCandidate, map[string]ProbeResult, []ScoredServer, error) {
	if maxCount < 1 {
		return nil, nil, nil, ErrInvalidMaxCount
	}

	candidates := n.catalog.Build(ctx, loc)
	probes := n.prober.Probe(ctx, candidates)
	selected, err := Select(ScoreAll(loc, candidates, probes), maxCount)

	n.metrics.ObserveSelection(len(selected), err)

	return candidates, probes, selected, err
}

// ProviderStats returns usage statistics of geolocation providers.
func (n *Netrunner) ProviderStats() []*UsageStats {
	return n.resolver.Stats()
}

// Shutdown stops the worker pool and closes providers which hold
// resources like opened databases.
func (n *Netrunner) Shutdown() {
	n.rwmutex.Lock()
	defer n.rwmutex.Unlock()

	n.closed = true

	n.closeOnce.Do(func() {
		n.prober.Close()

		for _, v := range n.providers {
			if closer, ok := v.(io.Closer); ok {
				closer.Close() // nolint: errcheck
			}
		}
	})
}

// NewNetrunner creates a new instance of Netrunner. Please do not
// forget to Shutdown it.
func NewNetrunner(opts Opts) (*Netrunner, error) {
	if len(opts.Providers) == 0 {
		return nil, fmt.Errorf("no geolocation providers are given")
	}

	prober, err := NewProber(ProberOpts{
		Pinger:        opts.Pinger,
		Clock:         opts.Clock,
		Concurrency:   opts.ProbeConcurrency,
		Samples:       opts.ProbeSamples,
		SampleTimeout: opts.ProbeSampleTimeout,
		Logger:        opts.Logger,
		Metrics:       opts.Metrics,
		Debug:         opts.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create a prober: %w", err)
	}

	rv := &Netrunner{
		resolver: NewResolver(ResolverOpts{
			Providers: opts.Providers,
			Logger:    opts.Logger,
			Metrics:   opts.Metrics,
			Timeout:   opts.ProviderTimeout,
			Debug:     opts.Debug,
		}),
		catalog: NewCatalog(CatalogOpts{
			Directory:     opts.Directory,
			ExtraServers:  opts.ExtraServers,
			MaxCandidates: opts.MaxCandidates,
			Logger:        opts.Logger,
			Metrics:       opts.Metrics,
			Debug:         opts.Debug,
		}),
		prober:    prober,
		providers: opts.Providers,
		metrics:   opts.Metrics,
	}

	return rv, nil
}
