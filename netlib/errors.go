package netlib

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
)

var (
	// ErrNoReachableServers is returned by selection if none of the
	// candidates has responded. This is fatal: there is nothing to
	// benchmark against.
	ErrNoReachableServers = errors.New("no reachable servers")

	// ErrInvalidMaxCount is returned if a caller asks for less than 1
	// server.
	ErrInvalidMaxCount = errors.New("max count of servers has to be positive")

	ErrNetrunnerShutdown = errors.New("netrunner instance was shutdown")
	ErrContextIsClosed   = errors.New("context is closed")
)

type ProviderErrorKind uint8

const (
	ProviderErrorTransport ProviderErrorKind = iota
	ProviderErrorTimeout
	ProviderErrorHTTPStatus
	ProviderErrorAPI
	ProviderErrorParse
	ProviderErrorValidation
)

func (p ProviderErrorKind) String() string {
	switch p {
	case ProviderErrorTimeout:
		return "timeout"
	case ProviderErrorHTTPStatus:
		return "http_status"
	case ProviderErrorAPI:
		return "api_error"
	case ProviderErrorParse:
		return "parse_error"
	case ProviderErrorValidation:
		return "validation_error"
	}

	return "transport"
}

// ProviderError describes why a provider has not produced a location.
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	message  string
	err      error
}

func (p *ProviderError) Unwrap() error {
	if p == nil {
		return nil
	}

	return p.err
}

func (p *ProviderError) Error() string {
	if p == nil {
		return ""
	}

	msg := p.Kind.String()

	if p.Provider != "" {
		msg = p.Provider + ": " + msg
	}

	if p.message != "" {
		msg += ": " + p.message
	}

	if p.err != nil {
		msg += ": " + p.err.Error()
	}

	return msg
}

// NewProviderError creates an error of a given kind. Both message and
// err are optional.
func NewProviderError(kind ProviderErrorKind, message string, err error) *ProviderError {
	return &ProviderError{
		Kind:    kind,
		message: message,
		err:     err,
	}
}

type ProbeErrorKind uint8

const (
	ProbeErrorConnectFailed ProbeErrorKind = iota
	ProbeErrorTimeout
)

func (p ProbeErrorKind) String() string {
	if p == ProbeErrorTimeout {
		return "timeout"
	}

	return "connect_failed"
}

// ProbeError describes why a candidate has not responded.
type ProbeError struct {
	Kind ProbeErrorKind
	err  error
}

func (p *ProbeError) Unwrap() error {
	if p == nil {
		return nil
	}

	return p.err
}

func (p *ProbeError) Error() string {
	switch {
	case p == nil:
		return ""
	case p.err != nil:
		return p.Kind.String() + ": " + p.err.Error()
	}

	return p.Kind.String()
}

func newProbeError(err error) *ProbeError {
	kind := ProbeErrorConnectFailed

	if isTimeout(err) {
		kind = ProbeErrorTimeout
	}

	return &ProbeError{
		Kind: kind,
		err:  err,
	}
}

type CatalogErrorKind uint8

const (
	CatalogErrorEmptyDynamicSet CatalogErrorKind = iota
)

// CatalogError is a recoverable failure of dynamic server discovery.
type CatalogError struct {
	Kind CatalogErrorKind
	err  error
}

func (c *CatalogError) Unwrap() error {
	if c == nil {
		return nil
	}

	return c.err
}

func (c *CatalogError) Error() string {
	switch {
	case c == nil:
		return ""
	case c.err != nil:
		return "empty dynamic set: " + c.err.Error()
	}

	return "empty dynamic set"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

type jsonHTTPError struct {
	Error struct {
		Message string `json:"message"`
		Context string `json:"context"`
	} `json:"error"`
}

type httpError struct {
	message    string
	err        error
	statusCode int
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) Err() string {
	if err := errors.Unwrap(h); err != nil {
		return err.Error()
	}

	return ""
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

func (h *httpError) MarshalJSON() ([]byte, error) {
	value := jsonHTTPError{}
	value.Error.Message = h.Message()
	value.Error.Context = h.Err()

	return json.Marshal(&value)
}
