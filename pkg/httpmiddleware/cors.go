package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls which cross-origin requests the middleware admits.
type CORSConfig struct {
	// AllowOrigins lists the origins allowed to call the API. Empty or a
	// single "*" admits every origin.
	AllowOrigins []string

	// AllowMethods for preflight responses. Empty means
	// "GET, POST, PUT, DELETE, OPTIONS".
	AllowMethods []string

	// AllowHeaders for preflight responses. Empty echoes whatever headers
	// the preflight asked for.
	AllowHeaders []string

	// ExposeHeaders lists response headers scripts may read.
	ExposeHeaders []string

	// AllowCredentials permits cookies and Authorization headers. The
	// wildcard origin cannot be combined with credentials, so when both are
	// set the middleware echoes the request origin instead of "*".
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header, negative sends "0".
	MaxAge int
}

type corsHeaders struct {
	cfg      CORSConfig
	wildcard bool
	echoAll  bool
	origins  map[string]string
	methods  string
	headers  string
	expose   string
	maxAge   string
}

// CORS returns a middleware handling cross-origin request headers, preflight
// included. Origin matching is case-insensitive and the configured spelling
// is echoed back. Vary headers are set so shared caches never serve one
// origin's response to another.
func CORS(cfg CORSConfig) Middleware {
	c := corsHeaders{
		cfg:     cfg,
		origins: make(map[string]string, len(cfg.AllowOrigins)),
		methods: strings.Join(cfg.AllowMethods, ", "),
		headers: strings.Join(cfg.AllowHeaders, ", "),
		expose:  strings.Join(cfg.ExposeHeaders, ", "),
	}
	anyOrigin := len(cfg.AllowOrigins) == 0
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			anyOrigin = true
			continue
		}
		c.origins[strings.ToLower(o)] = o
	}
	// Credentials cannot ride on a literal "*", so that combination echoes
	// the request origin instead.
	c.wildcard = anyOrigin && !cfg.AllowCredentials
	c.echoAll = anyOrigin && cfg.AllowCredentials
	if c.methods == "" {
		c.methods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	switch {
	case cfg.MaxAge > 0:
		c.maxAge = strconv.Itoa(cfg.MaxAge)
	case cfg.MaxAge < 0:
		c.maxAge = "0"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				if !c.wildcard {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				c.preflight(w, r, origin)
				return
			}

			if !c.wildcard {
				w.Header().Add("Vary", "Origin")
			}
			if allow := c.allowOrigin(origin); allow != "" {
				w.Header().Set("Access-Control-Allow-Origin", allow)
				if c.cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				if c.expose != "" {
					w.Header().Set("Access-Control-Expose-Headers", c.expose)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (c corsHeaders) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	h := w.Header()
	h.Add("Vary", "Origin")
	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")

	allow := c.allowOrigin(origin)
	if allow == "" {
		// Disallowed origin gets 204 with no CORS headers.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.Set("Access-Control-Allow-Origin", allow)
	h.Set("Access-Control-Allow-Methods", c.methods)
	switch {
	case c.headers != "":
		h.Set("Access-Control-Allow-Headers", c.headers)
	case r.Header.Get("Access-Control-Request-Headers") != "":
		h.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
	}
	if c.cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.maxAge != "" {
		h.Set("Access-Control-Max-Age", c.maxAge)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c corsHeaders) allowOrigin(origin string) string {
	switch {
	case c.wildcard:
		return "*"
	case c.echoAll:
		return origin
	}
	return c.origins[strings.ToLower(origin)]
}
