package main

import (
	"crypto/subtle"
	"net/http"
)

type basicAuthMiddleware struct {
	handler  http.Handler
	user     []byte
	password []byte
}

func (b *basicAuthMiddleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, pass, _ := req.BasicAuth()

	userBytes := []byte(user)
	passBytes := []byte(pass)

	if subtle.ConstantTimeCompare(b.user, userBytes)+subtle.ConstantTimeCompare(b.password, passBytes) == 2 {
		b.handler.ServeHTTP(w, req)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Basic realm="netrunner"`)
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": {"message": "Authentication is required"}}`)) // nolint: errcheck
}

// basicAuth is a chi-compatible middleware. It does nothing if auth is
// not configured.
func basicAuth(conf configBasicAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !conf.GetEnabled() {
			return next
		}

		return &basicAuthMiddleware{
			handler:  next,
			user:     []byte(conf.User),
			password: []byte(conf.Password),
		}
	}
}
