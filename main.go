package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/sorinirimies/netrunner-cli/observability"
	"github.com/spf13/afero"
)

const (
	exitCodeOk        = 0
	exitCodeFailure   = 1
	exitCodeNoServers = 2

	shutdownTimeout = 5 * time.Second

	debugEnvName = "NETRUNNER_DEBUG"
)

var version = "dev"

var (
	app = kingpin.New(
		"netrunner",
		"Find out where you are and which test servers suit you best.")

	debug = app.Flag("debug", "Run in debug mode. Any value of "+debugEnvName+" enables it too.").
		Short('d').
		Bool()
	configPath = app.Flag("config", "Path to HJSON or YAML config.").
		Short('c').
		Envar("NETRUNNER_CONFIG").
		String()
	maxServers = app.Flag("max-servers", "How many servers to select (default 3).").
		Short('n').
		Uint()
	jsonOutput = app.Flag("json", "Print a full report as JSON.").
		Bool()
	deadline = app.Flag("deadline", "Deadline of a single run (default 60s).").
		Duration()
	interval = app.Flag("interval", "Repeat runs with this interval until interrupted.").
		Duration()
	listen = app.Flag("listen", "Serve HTTP API on host:port instead of a single run.").
		String()
	metricsFile = app.Flag("metrics-file", "Write Prometheus metrics into this file after each run.").
		String()
)

type application struct {
	conf     *config
	runner   *netlib.Netrunner
	log      *logger
	registry *prometheus.Registry
	fs       afero.Fs
}

func (a *application) runOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, a.conf.GetDeadline())
	defer cancel()

	report, err := a.runner.Run(ctx, a.conf.GetMaxServers())

	a.writeMetrics()

	if err != nil {
		a.log.RunError(err)
	} else {
		a.log.RunDone(report)
	}

	if *jsonOutput {
		printJSONReport(os.Stdout, report)
	} else {
		printReport(os.Stdout, report)
	}

	switch {
	case errors.Is(err, netlib.ErrNoReachableServers):
		printFailure(os.Stderr, "No reachable test servers: all candidates failed to respond.")

		return exitCodeNoServers
	case err != nil:
		printFailure(os.Stderr, err.Error())

		return exitCodeFailure
	}

	return exitCodeOk
}

func (a *application) monitor(ctx context.Context) int {
	ticker := time.NewTicker(a.conf.GetInterval())
	defer ticker.Stop()

	code := a.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return code
		case <-ticker.C:
			code = a.runOnce(ctx)
		}
	}
}

func (a *application) serve(ctx context.Context) int {
	router := chi.NewRouter()

	router.Use(middleware.RealIP)
	router.Use(basicAuth(a.conf.BasicAuth))
	router.Use(middleware.Timeout(a.conf.GetDeadline()))
	router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	router.Mount("/", netlib.NewHTTPHandler(a.runner))

	srv := &http.Server{
		Addr:              a.conf.GetListen(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		printFailure(os.Stderr, fmt.Sprintf("Cannot serve HTTP API: %v", err))

		return exitCodeFailure
	}

	return exitCodeOk
}

func (a *application) writeMetrics() {
	path := a.conf.GetMetricsFile()
	if path == "" {
		return
	}

	if err := writeMetricsFile(a.fs, a.registry, path); err != nil {
		a.log.RunError(fmt.Errorf("cannot write metrics file: %w", err))
	}
}

// debug mode is enabled if the variable is set, its value is not
// interpreted.
func debugFromEnv(lookup func(string) (string, bool)) bool {
	_, ok := lookup(debugEnvName)

	return ok
}

func applyFlags(conf *config) {
	if *debug || debugFromEnv(os.LookupEnv) {
		conf.Debug = true
	}

	if *maxServers > 0 {
		conf.MaxServers = *maxServers
	}

	if *deadline > 0 {
		conf.Deadline.Duration = *deadline
	}

	if *interval > 0 {
		conf.Interval.Duration = *interval
	}

	if *listen != "" {
		conf.Listen = *listen
	}

	if *metricsFile != "" {
		conf.MetricsFile = *metricsFile
	}
}

func mainFunc() int {
	fs := afero.NewOsFs()

	conf, err := parseConfig(fs, *configPath)
	if err != nil {
		printFailure(os.Stderr, fmt.Sprintf("Cannot read config: %v", err))

		return exitCodeFailure
	}

	applyFlags(conf)

	if err := validateConfig(conf); err != nil {
		printFailure(os.Stderr, fmt.Sprintf("Incorrect configuration: %v", err))

		return exitCodeFailure
	}

	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics := observability.NewMetrics(registry)
	log := newLogger(os.Stderr, conf.Debug)

	provs, err := makeProviders(conf, fs)
	if err != nil {
		printFailure(os.Stderr, fmt.Sprintf("Cannot initialize providers: %v", err))

		return exitCodeFailure
	}

	extraServers, err := makeExtraServers(conf)
	if err != nil {
		closeProviders(provs)
		printFailure(os.Stderr, fmt.Sprintf("Incorrect servers: %v", err))

		return exitCodeFailure
	}

	longRunning := conf.GetListen() != "" || conf.GetInterval() > 0

	runner, err := netlib.NewNetrunner(netlib.Opts{
		Providers:          provs,
		Directory:          makeDirectory(conf, metrics, longRunning),
		ExtraServers:       extraServers,
		Pinger:             makePinger(conf.GetUserAgent()),
		Clock:              clockwork.NewRealClock(),
		Logger:             log,
		Metrics:            metrics,
		ProviderTimeout:    conf.GetProviderTimeout(),
		MaxCandidates:      conf.GetMaxCandidates(),
		ProbeConcurrency:   conf.Probe.GetConcurrency(),
		ProbeSamples:       conf.Probe.GetSamples(),
		ProbeSampleTimeout: conf.Probe.GetSampleTimeout(),
		Debug:              conf.Debug,
	})
	if err != nil {
		closeProviders(provs)
		printFailure(os.Stderr, fmt.Sprintf("Cannot initialize netrunner: %v", err))

		return exitCodeFailure
	}

	defer runner.Shutdown()

	ctx, cancel := makeRootContext()
	defer cancel()

	a := &application{
		conf:     conf,
		runner:   runner,
		log:      log,
		registry: registry,
		fs:       fs,
	}

	switch {
	case conf.GetListen() != "":
		return a.serve(ctx)
	case conf.GetInterval() > 0:
		return a.monitor(ctx)
	}

	return a.runOnce(ctx)
}

func main() {
	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	os.Exit(mainFunc())
}
