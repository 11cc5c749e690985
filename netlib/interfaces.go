package netlib

import (
	"context"
	"net/http"
)

// Provider is a geolocation provider. It has to detect a location of
// the machine it runs on, so there is no address to pass.
type Provider interface {
	Name() string
	Lookup(context.Context) (ProviderLookupResult, error)
}

// Directory is a source of test servers which are close to a given
// location.
type Directory interface {
	Name() string
	Nearby(context.Context, Location) ([]ServerCandidate, error)
}

// Pinger does a single lightweight round-trip to a candidate. Prober
// measures how long it takes.
type Pinger interface {
	Ping(context.Context, ServerCandidate) error
}

// HTTPClient is an interface for http.Client-like things.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Logger receives trace diagnostics. Nothing is sent there unless
// debug mode is enabled.
type Logger interface {
	ProviderError(name string, err error)
	ProbeError(candidateID string, err error)
	CatalogError(name string, err error)
}

type noopLogger struct{}

func (noopLogger) ProviderError(string, error) {}
func (noopLogger) ProbeError(string, error)    {}
func (noopLogger) CatalogError(string, error)  {}

// NoopLogger returns a logger which drops everything.
func NoopLogger() Logger {
	return noopLogger{}
}
