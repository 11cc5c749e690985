// This package provides a set of structs and functions which are used
// to find out where a client is and which test servers are worth
// benchmarking against.
//
// netlib is core of the netrunner project. The rest of the application
// is a thin shell around it: how to read a configuration, how to
// print results, how to expose an HTTP API.
//
// Netrunner is a main entity of the netlib. It wires 4 stages together:
//
// Resolver walks an ordered chain of geolocation providers and stops at
// the first one which returns a valid location. If every provider
// fails, it returns a fixed fallback location.
//
// Catalog assembles candidate servers: dynamically discovered ones from
// a server directory plus a static set of hubs. It always contains at
// least one global CDN entry.
//
// Prober measures round-trip time to every candidate on a bounded
// worker pool.
//
// Score and Select rank reachable candidates by a quality score built
// from latency, distance and a geographic class weight.
package netlib
