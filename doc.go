// Netrunner finds out where you are and which test servers suit you
// best for a throughput benchmark.
//
// Idea is simple: ask a chain of geolocation providers where this
// machine is, collect nearby test servers, measure how fast they
// respond and rank them by latency and distance. Throughput test itself
// is done by somebody else.
//
// Tool itself is organized into 3 logical parts:
//
// Netlib
//
// netlib is a main package of the application which contains
// Netrunner struct and main logic related to resolution and selection.
// Netrunner has a set of pluggable providers and some options, mostly
// optional. It has its own HTTP API.
//
// Providers
//
// This package has a set of geolocation providers (ipapi.co,
// ip-api.com, ipinfo.io, freegeoip.app, ipwho.is and offline MaxMind
// databases) and a speedtest.net server directory.
//
// Netrunner
//
// A main package itself is an example of how to wire both netlib and
// providers. It does a single run by default, repeats runs in monitor
// mode (--interval) or serves HTTP API with Prometheus metrics
// (--listen).
package main
