package core

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Handler produces a response value from the bound path parameters.
// The value is passed to Serialize.
type Handler func(params Params) (any, error)

type Route struct {
	Method    string
	Pattern   string
	Segments  []Segment
	ParamKeys []string
	Handler   Handler
}

func (rt Route) match(method string, parts []string) (Params, bool) {
	if !rt.accepts(method) || len(parts) != len(rt.Segments) {
		return nil, false
	}

	params := Params{}
	for i, seg := range rt.Segments {
		value, ok := seg.match(parts[i])
		if !ok {
			return nil, false
		}
		if seg.IsVariable() {
			params[seg.Key] = value
		}
	}
	return params, true
}

// accepts reports whether the route answers method. GET routes also
// answer HEAD.
func (rt Route) accepts(method string) bool {
	return rt.Method == method || (method == http.MethodHead && rt.Method == http.MethodGet)
}

type Request struct {
	Method string
	Path   string
}

type Response struct {
	Status      int
	Body        []byte
	ContentType string
	Route       string
}

func (res *Response) Write(w http.ResponseWriter) {
	res.WriteHeader(w)
	w.Write(res.Body)
}

// WriteHeader sends the status and headers without the body.
func (res *Response) WriteHeader(w http.ResponseWriter) {
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
	w.WriteHeader(res.Status)
}

type RuntimeContext struct {
	Env    string
	Logger *slog.Logger
}

// Router dispatches requests to handlers in registration order. Routes must
// be registered before the router starts serving; the table is read-only
// afterwards.
type Router struct {
	config Config
	env    string
	logger *slog.Logger
	routes []Route
}

func NewRouter(config Config, ctx RuntimeContext) *Router {
	logger := ctx.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{
		config: config,
		env:    ctx.Env,
		logger: logger,
	}
}

func (r *Router) Register(pattern, method string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("%w: %s %s has no handler", ErrInvalidPattern, method, pattern)
	}

	segments, paramKeys, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	method = strings.ToUpper(method)
	for _, existing := range r.routes {
		if existing.Method == method && existing.Pattern == pattern {
			r.logger.Warn("route shadowed by earlier registration", "method", method, "pattern", pattern)
			break
		}
	}

	r.routes = append(r.routes, Route{
		Method:    method,
		Pattern:   pattern,
		Segments:  segments,
		ParamKeys: paramKeys,
		Handler:   handler,
	})
	r.logger.Debug("route registered", "method", method, "pattern", pattern)
	return nil
}

// Get registers a GET route and panics if the pattern is invalid.
func (r *Router) Get(pattern string, handler Handler) {
	if err := r.Register(pattern, http.MethodGet, handler); err != nil {
		panic(err)
	}
}

func (r *Router) Routes() []Route {
	return r.routes
}

// Shadowed returns routes that can never match because an earlier route has
// the same method and pattern.
func (r *Router) Shadowed() []Route {
	seen := map[string]bool{}
	shadowed := []Route{}
	for _, route := range r.routes {
		key := route.Method + " " + route.Pattern
		if seen[key] {
			shadowed = append(shadowed, route)
			continue
		}
		seen[key] = true
	}
	return shadowed
}

func (r *Router) Dispatch(req Request) (*Response, error) {
	return r.dispatch(req.Method, req.Path, splitPath(req.Path))
}

func (r *Router) dispatch(method, path string, parts []string) (*Response, error) {
	for _, route := range r.routes {
		params, ok := route.match(method, parts)
		if !ok {
			continue
		}

		value, err := route.Handler(params)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, route.Pattern, err)
		}

		body, contentType, err := Serialize(value)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, route.Pattern, err)
		}

		return &Response{
			Status:      http.StatusOK,
			Body:        body,
			ContentType: contentType,
			Route:       route.Pattern,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	parts, err := unescapeParts(req.URL.EscapedPath())
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	res, err := r.dispatch(req.Method, req.URL.Path, parts)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusNotFound {
			http.Error(w, "Not Found", status)
			return
		}
		r.logger.Error("dispatch failed", "method", req.Method, "path", req.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", status)
		return
	}

	if r.config.DebugHeaders {
		w.Header().Set("X-Bodensee-Route", res.Route)
	}
	if req.Method == http.MethodHead {
		res.WriteHeader(w)
		return
	}
	res.Write(w)
}

func unescapeParts(escaped string) ([]string, error) {
	parts := splitPath(escaped)
	for i, part := range parts {
		unescaped, err := url.PathUnescape(part)
		if err != nil {
			return nil, err
		}
		parts[i] = unescaped
	}
	return parts, nil
}
