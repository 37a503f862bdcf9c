package boomproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/julienschmidt/httprouter"
)

const (
	ChatPath           = "/api/chat"
	UpstreamKeyEnvVar  = "GATEPASS_UPSTREAM_KEY"
	corsAllowedMethods = "POST, OPTIONS"
	corsAllowedHeaders = "Content-Type, Authorization"
)

// KeyFromEnv reads the upstream api key and erases the variable so it
// does not leak to child processes.
func KeyFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) string {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	return val
}

// AsHandler forwards chat requests to upstream as-is. The caller's
// Authorization header never reaches upstream; apiKey is sent instead.
// Callers are expected to authenticate POST requests before they get here.
func AsHandler(ctx context.Context, upstream *url.URL, apiKey string) http.Handler {
	router := httprouter.New()

	proxy := &httputil.ReverseProxy{
		Director: func(r *http.Request) {
			r.URL.Scheme = upstream.Scheme
			r.URL.Host = upstream.Host
			r.URL.Path = upstream.Path
			r.URL.RawPath = upstream.RawPath
			r.URL.RawQuery = upstream.RawQuery
			r.Host = upstream.Host
			r.Header.Del("Cookie")
			r.Header.Del("Authorization")
			if apiKey != "" {
				r.Header.Set("Authorization", "Bearer "+apiKey)
			}
		},
		ModifyResponse: func(res *http.Response) error {
			// upstream CORS policy is irrelevant to our callers
			res.Header.Del("Access-Control-Allow-Origin")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Str("upstream", upstream.Host).Msg("Proxy request failed")
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": "Proxy error."})
		},
	}

	router.Handler("POST", ChatPath, withCORS(proxy))
	router.Handler("OPTIONS", ChatPath, withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	log := logutil.GetOrDefault(ctx)
	log.Info().Str("upstream", upstream.Redacted()).Msg("Chat proxy enabled")
	return router
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		next.ServeHTTP(w, r)
	})
}
