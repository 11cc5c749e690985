package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/sorinirimies/netrunner-cli/observability"
	"github.com/sorinirimies/netrunner-cli/providers"
	"github.com/spf13/afero"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeProviders(conf *config, fs afero.Fs) ([]netlib.Provider, error) {
	rv := make([]netlib.Provider, 0, len(conf.GetProviders()))

	for _, v := range conf.GetProviders() {
		httpClient := makeNewHTTPClient(conf.GetUserAgent(),
			v.GetHTTPTimeout(),
			v.GetRateLimitInterval(),
			v.GetRateLimitBurst())

		switch v.GetName() {
		case providers.NameIPAPICo:
			rv = append(rv, providers.NewIPAPICo(httpClient))
		case providers.NameIPAPICom:
			rv = append(rv, providers.NewIPAPICom(httpClient))
		case providers.NameIPInfo:
			rv = append(rv, providers.NewIPInfo(httpClient, v.GetAuthToken()))
		case providers.NameFreeGeoIP:
			rv = append(rv, providers.NewFreeGeoIP(httpClient))
		case providers.NameIPWhois:
			rv = append(rv, providers.NewIPWhois(httpClient))
		case providers.NameMaxmind:
			prov, err := providers.NewMaxmind(httpClient, fs, v.GetDBPath())
			if err != nil {
				closeProviders(rv)

				return nil, fmt.Errorf("cannot create maxmind provider: %w", err)
			}

			rv = append(rv, prov)
		default:
			closeProviders(rv)

			return nil, fmt.Errorf("unsupported provider name: %s", v.GetName())
		}
	}

	return rv, nil
}

// makeDirectory returns nil if directory is disabled: catalog works with
// static servers only in that case.
func makeDirectory(conf *config, metrics *observability.Metrics, cached bool) netlib.Directory {
	if !conf.Directory.GetEnabled() {
		return nil
	}

	dir := providers.NewSpeedtest(makeNewHTTPClient(conf.GetUserAgent(),
		conf.Directory.GetHTTPTimeout(),
		DefaultRateLimitInterval,
		DefaultRateLimitBurst))

	if !cached {
		return dir
	}

	return netlib.NewCachingDirectory(dir,
		conf.Directory.GetCacheSize(),
		conf.Directory.GetCacheTTL(),
		metrics)
}

func makeExtraServers(conf *config) ([]netlib.ServerCandidate, error) {
	rv := make([]netlib.ServerCandidate, 0, len(conf.GetServers()))

	for _, v := range conf.GetServers() {
		candidate, err := v.ToCandidate()
		if err != nil {
			return nil, fmt.Errorf("incorrect server %s: %w", v.Endpoint, err)
		}

		rv = append(rv, candidate)
	}

	return rv, nil
}

func makeNewHTTPClient(userAgent string,
	timeout time.Duration,
	rateLimitInterval time.Duration,
	rateLimitBurst int) netlib.HTTPClient {
	httpClient := &http.Client{
		Timeout: timeout,
	}

	return netlib.NewHTTPClient(httpClient, userAgent, rateLimitInterval, rateLimitBurst)
}

// probes are not rate limited: each sample is a separate measurement
// and waiting for a limiter would be measured as latency.
func makePinger(userAgent string) netlib.Pinger {
	client := netlib.NewPingerHTTPClient(http.DefaultTransport.(*http.Transport).Clone())

	return netlib.NewHTTPPinger(netlib.NewHTTPClient(client, userAgent, 0, 1))
}

func closeProviders(provs []netlib.Provider) {
	for _, v := range provs {
		if closer, ok := v.(io.Closer); ok {
			closer.Close() // nolint: errcheck
		}
	}
}
