package netlib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Coordinate is a point on Earth in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// InRange checks that latitude is within [-90, 90] and longitude is
// within [-180, 180]. NaN values are never in range.
func (c Coordinate) InRange() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// IsNullIsland reports an exact (0, 0) pair. Providers tend to return it
// when they failed to parse something, it is never a real answer.
func (c Coordinate) IsNullIsland() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Location is a resolved geolocation of the client.
type Location struct {
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code,omitempty"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ISP         string  `json:"isp,omitempty"`
	Source      string  `json:"source"`
}

func (l Location) Coordinate() Coordinate {
	return Coordinate{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
}

// ProviderLookupResult is a raw answer of the provider. It is not
// validated yet, Resolver does that.
type ProviderLookupResult struct {
	Country     string
	CountryCode string
	City        string
	Latitude    float64
	Longitude   float64
	ISP         string
}

// GeoClass describes a geographic reach of the server.
type GeoClass uint8

const (
	GeoClassUnknown GeoClass = iota
	GeoClassRegional
	GeoClassContinental
	GeoClassGlobal
	GeoClassBackup
)

var geoClassNames = map[GeoClass]string{
	GeoClassRegional:    "regional",
	GeoClassContinental: "continental",
	GeoClassGlobal:      "global",
	GeoClassBackup:      "backup",
}

func (g GeoClass) String() string {
	if name, ok := geoClassNames[g]; ok {
		return name
	}

	return "unknown"
}

// DefaultWeight returns a weight which is used for the class if nothing
// else is given explicitly.
func (g GeoClass) DefaultWeight() float64 {
	switch g {
	case GeoClassRegional:
		return 1.0
	case GeoClassContinental:
		return 0.9
	case GeoClassGlobal:
		return 0.5
	case GeoClassBackup:
		return 0.3
	}

	return 0
}

func (g GeoClass) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}

	buf.WriteByte('"')
	buf.WriteString(g.String())
	buf.WriteByte('"')

	return buf.Bytes(), nil
}

// ParseGeoClass maps a class name into GeoClass. Names are case
// insensitive.
func ParseGeoClass(name string) (GeoClass, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for k, v := range geoClassNames {
		if v == name {
			return k, nil
		}
	}

	return GeoClassUnknown, fmt.Errorf("unknown geographic class %q", name)
}

// ServerCandidate is a test server which can be selected.
type ServerCandidate struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Endpoint   string      `json:"endpoint"`
	Location   string      `json:"location,omitempty"`
	Class      GeoClass    `json:"class"`
	Weight     float64     `json:"weight"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	Origin     string      `json:"origin"`
}

const (
	OriginDirectory = "directory"
	OriginStatic    = "static"
)

// NewServerCandidate builds a candidate with a default weight of its
// class. Identifier is derived from the endpoint so candidates are
// comparable by their identity.
func NewServerCandidate(name, endpoint string, class GeoClass, origin string) ServerCandidate {
	return ServerCandidate{
		ID:       EndpointKey(endpoint),
		Name:     name,
		Endpoint: endpoint,
		Class:    class,
		Weight:   class.DefaultWeight(),
		Origin:   origin,
	}
}

// WithCoordinate returns a copy of candidate with given coordinates.
func (s ServerCandidate) WithCoordinate(lat, lon float64) ServerCandidate {
	s.Coordinate = &Coordinate{Latitude: lat, Longitude: lon}

	return s
}

// WithWeight returns a copy of candidate with overridden class weight.
func (s ServerCandidate) WithWeight(weight float64) ServerCandidate {
	s.Weight = weight

	return s
}

// WithLocation returns a copy of candidate with a human readable
// location label.
func (s ServerCandidate) WithLocation(location string) ServerCandidate {
	s.Location = location

	return s
}

// ProbeResult is a result of latency measurement for a single
// candidate. LatencyMs and JitterMs make sense only if Success is true.
type ProbeResult struct {
	CandidateID string
	Success     bool
	LatencyMs   float64
	JitterMs    float64
	Samples     int
	Err         error
}

func (p ProbeResult) MarshalJSON() ([]byte, error) {
	rawStruct := struct {
		CandidateID string   `json:"candidate_id"`
		Success     bool     `json:"success"`
		LatencyMs   *float64 `json:"latency_ms,omitempty"`
		JitterMs    *float64 `json:"jitter_ms,omitempty"`
		Samples     int      `json:"samples"`
		Error       string   `json:"error,omitempty"`
	}{
		CandidateID: p.CandidateID,
		Success:     p.Success,
		Samples:     p.Samples,
	}

	if p.Success {
		latency, jitter := p.LatencyMs, p.JitterMs
		rawStruct.LatencyMs = &latency
		rawStruct.JitterMs = &jitter
	}

	if p.Err != nil {
		rawStruct.Error = p.Err.Error()
	}

	return json.Marshal(&rawStruct)
}

// ScoredServer is a reachable candidate with its quality score.
type ScoredServer struct {
	Candidate  ServerCandidate `json:"candidate"`
	DistanceKm float64         `json:"distance_km"`
	LatencyMs  float64         `json:"latency_ms"`
	JitterMs   float64         `json:"jitter_ms"`
	Quality    float64         `json:"quality"`
}

func roundTo(value float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))

	return math.Round(value*pow) / pow
}
