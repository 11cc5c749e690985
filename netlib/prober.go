package netlib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/montanaflynn/stats"
	"github.com/panjf2000/ants/v2"

	"github.com/sorinirimies/netrunner-cli/observability"
)

const (
	DefaultProbeConcurrency   = 15
	DefaultProbeSamples       = 3
	DefaultProbeSampleTimeout = 2 * time.Second

	workerPoolExpireTime = time.Minute
)

// ProberOpts are options of Prober. Only Pinger is mandatory.
type ProberOpts struct {
	Pinger        Pinger
	Clock         clockwork.Clock
	Concurrency   int
	Samples       int
	SampleTimeout time.Duration
	Logger        Logger
	Metrics       *observability.Metrics
	Debug         bool
}

type probeTask struct {
	ctx       context.Context
	candidate ServerCandidate
	result    *ProbeResult
	wg        *sync.WaitGroup
}

// Prober measures latency of many candidates concurrently. A number of
// in-flight candidates is limited by a size of the worker pool.
type Prober struct {
	pinger        Pinger
	clock         clockwork.Clock
	samples       int
	sampleTimeout time.Duration
	logger        Logger
	metrics       *observability.Metrics
	history       *latencyHistory
	workerPool    *ants.PoolWithFunc
	debug         bool
}

// Probe returns a result for each given candidate, keyed by candidate
// ID. It waits until all candidates are processed. If context is
// closed, candidates which were not probed yet are marked as failed.
func (p *Prober) Probe(ctx context.Context, candidates []ServerCandidate) map[string]ProbeResult {
	results := make([]ProbeResult, len(candidates))
	wg := &sync.WaitGroup{}

	for i := range candidates {
		results[i].CandidateID = candidates[i].ID

		if ctx.Err() != nil {
			results[i].Err = newProbeError(ctx.Err())

			continue
		}

		wg.Add(1)

		task := &probeTask{
			ctx:       ctx,
			candidate: candidates[i],
			result:    &results[i],
			wg:        wg,
		}

		if err := p.workerPool.Invoke(task); err != nil {
			wg.Done()

			results[i].Err = newProbeError(fmt.Errorf("cannot schedule a task: %w", err))
		}
	}

	wg.Wait()

	rv := make(map[string]ProbeResult, len(results))

	for i, v := range results {
		if !v.Success && p.debug {
			p.logger.ProbeError(v.CandidateID, v.Err)
		}

		if !v.Success {
			p.metrics.ObserveProbe(candidates[i].Class.String(), probeOutcome(v.Err), 0)
		}

		rv[v.CandidateID] = v
	}

	return rv
}

// SmoothedLatency returns a moving average of latency of the candidate
// over all previous Probe calls.
func (p *Prober) SmoothedLatency(candidateID string) (float64, bool) {
	return p.history.Get(candidateID)
}

func (p *Prober) Close() {
	p.workerPool.Release()
}

func (p *Prober) probe(args interface{}) {
	task := args.(*probeTask)
	defer task.wg.Done()

	latencies := make([]float64, 0, p.samples)

	var lastErr error

	for i := 0; i < p.samples && task.ctx.Err() == nil; i++ {
		elapsed, err := p.sample(task.ctx, task.candidate)
		if err != nil {
			lastErr = err

			continue
		}

		latencies = append(latencies, float64(elapsed)/float64(time.Millisecond))
	}

	task.result.Samples = len(latencies)

	if len(latencies) == 0 {
		if lastErr == nil {
			lastErr = task.ctx.Err()
		}

		task.result.Err = newProbeError(lastErr)

		return
	}

	mean, _ := stats.Mean(latencies)
	jitter, _ := stats.StandardDeviation(latencies)

	task.result.Success = true
	task.result.LatencyMs = mean
	task.result.JitterMs = jitter

	p.history.Add(task.result.CandidateID, mean)
	p.metrics.ObserveProbe(task.candidate.Class.String(), "ok",
		time.Duration(mean*float64(time.Millisecond)))
}

func (p *Prober) sample(ctx context.Context, candidate ServerCandidate) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, p.sampleTimeout)
	defer cancel()

	started := p.clock.Now()

	if err := p.pinger.Ping(ctx, candidate); err != nil {
		return 0, err
	}

	return p.clock.Since(started), nil
}

func probeOutcome(err error) string {
	if isTimeout(err) {
		return ProbeErrorTimeout.String()
	}

	return ProbeErrorConnectFailed.String()
}

// NewProber creates a new prober. Please do not forget to Close it.
func NewProber(opts ProberOpts) (*Prober, error) {
	if opts.Pinger == nil {
		return nil, fmt.Errorf("pinger is not defined")
	}

	rv := &Prober{
		pinger:        opts.Pinger,
		clock:         opts.Clock,
		samples:       opts.Samples,
		sampleTimeout: opts.SampleTimeout,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		history:       newLatencyHistory(),
		debug:         opts.Debug,
	}

	if rv.clock == nil {
		rv.clock = clockwork.NewRealClock()
	}

	if rv.samples <= 0 {
		rv.samples = DefaultProbeSamples
	}

	if rv.sampleTimeout <= 0 {
		rv.sampleTimeout = DefaultProbeSampleTimeout
	}

	if rv.logger == nil {
		rv.logger = NoopLogger()
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultProbeConcurrency
	}

	pool, err := ants.NewPoolWithFunc(concurrency,
		rv.probe,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	rv.workerPool = pool

	return rv, nil
}
