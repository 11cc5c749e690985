package netlib

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const defaultHTTPMaxServers = 3

type httpHandler struct {
	runner *Netrunner
}

func (h httpHandler) handleGetLocation(w http.ResponseWriter, req *http.Request) {
	loc, fallback, err := h.runner.Resolve(req.Context())
	if err != nil {
		h.sendError(w, err, "Cannot resolve a location", 0)

		return
	}

	response := struct {
		Result struct {
			Location Location `json:"location"`
			Fallback bool     `json:"fallback"`
		} `json:"result"`
	}{}

	response.Result.Location = loc
	response.Result.Fallback = fallback

	h.encodeJSON(w, response)
}

func (h httpHandler) handleGetServers(w http.ResponseWriter, req *http.Request) {
	maxCount := defaultHTTPMaxServers

	if value := req.URL.Query().Get("max"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			h.sendError(w, ErrInvalidMaxCount, "Incorrect max parameter", http.StatusBadRequest)

			return
		}

		maxCount = parsed
	}

	report, err := h.runner.Run(req.Context(), maxCount)

	switch {
	case errors.Is(err, ErrNoReachableServers):
		h.sendError(w, err, "No reachable servers", http.StatusServiceUnavailable)

		return
	case err != nil:
		h.sendError(w, err, "Cannot select servers", 0)

		return
	}

	response := struct {
		Result Report `json:"result"`
	}{
		Result: report,
	}

	h.encodeJSON(w, response)
}

func (h httpHandler) handleGetStats(w http.ResponseWriter, req *http.Request) {
	response := struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.runner.ProviderStats(),
	}

	h.encodeJSON(w, response)
}

func (h httpHandler) handleMethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	h.sendError(w, nil, "This HTTP method is not allowed", http.StatusMethodNotAllowed)
}

func (h httpHandler) handleNotFound(w http.ResponseWriter, req *http.Request) {
	h.sendError(w, nil, "Unknown endpoint", http.StatusNotFound)
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())
	h.encodeJSON(w, e)
}

// NewHTTPHandler returns an HTTP API of a given netrunner instance.
//
//   GET /location       - location of the client
//   GET /servers?max=N  - full run report with N best servers
//   GET /stats          - usage stats of geolocation providers
func NewHTTPHandler(runner *Netrunner) http.Handler {
	handler := httpHandler{
		runner: runner,
	}
	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SetHeader("Content-Type", "application/json"))
	router.MethodNotAllowed(handler.handleMethodNotAllowed)
	router.NotFound(handler.handleNotFound)

	router.Get("/location", handler.handleGetLocation)
	router.Get("/servers", handler.handleGetServers)
	router.Get("/stats", handler.handleGetStats)

	return router
}
