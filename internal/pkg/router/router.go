package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

// Handler is the application-style handler used by this router.
//
// A response implementing Message() string is written as text/plain, any
// other response is JSON encoded. StatusCode() int overrides the 200 default.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// JWT validates and parses authentication tokens.
	JWT jwt.JWT
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// PublicEndpoints lists routes per method that skip token verification.
	PublicEndpoints map[string][]string
	// SecretResponses lists routes whose response bodies are never logged.
	SecretResponses []string
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
}

// NewRouter builds the application router with standard middleware.
func NewRouter(cfg Config) *Router {
	edge := []Middleware{middlewareRecoverer, middlewareCorrelationID(cfg.UUID)}

	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeText(w, "Not found", http.StatusNotFound)
		}), edge...),
		MethodNotAllowed: Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeText(w, "Method not allowed", http.StatusMethodNotAllowed)
		}), edge...),
	}

	publicEndpoints := make(map[string]map[string]struct{}, len(cfg.PublicEndpoints))
	for method, paths := range cfg.PublicEndpoints {
		set := make(map[string]struct{}, len(paths))
		for _, p := range paths {
			set[p] = struct{}{}
		}
		publicEndpoints[method] = set
	}

	maxConcurrent, trustProxy := 0, false
	if cfg.Config != nil {
		maxConcurrent = cfg.Config.GetInt("app.server.max_concurrent_requests")
		trustProxy = cfg.Config.GetBool("app.server.trust_proxy")
	}

	return &Router{
		hr:         hr,
		errorCodec: writeError,
		encoder:    writeResponse,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareClientIP(trustProxy),
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, cfg.Instrument, cfg.SecretResponses),
			middlewareMaintenance(cfg.Config),
			middlewareLimiter(maxConcurrent),
			middlewareAuthentication(cfg.JWT, publicEndpoints),
		},
	}
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			r.errorCodec(re.Context(), w, err)
			return
		}
		r.encoder(re.Context(), w, resp)
	}), append(slices.Clone(r.mws), mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// writeError renders err as text. Validation details are appended in key order.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "unhandled error reached the router", "error", err)
		writeText(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	fields := gerr.Fields()
	var errValidate validator.FieldErrors
	if errors.As(err, &errValidate) {
		fields = errValidate.Fields()
	}

	msg := gerr.Msg()
	if len(fields) > 0 {
		details := make([]string, 0, len(fields))
		for _, k := range slices.Sorted(maps.Keys(fields)) {
			details = append(details, fields[k])
		}
		msg += ": " + strings.Join(details, "; ")
	}

	writeText(w, msg, gerr.StatusCode())
}

func writeResponse(_ context.Context, w http.ResponseWriter, resp any) {
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	code := http.StatusOK
	if sc, ok := resp.(interface {
		StatusCode() int
	}); ok {
		code = sc.StatusCode()
	}

	if m, ok := resp.(interface {
		Message() string
	}); ok {
		writeText(w, m.Message(), code)
		return
	}

	writeJSON(w, resp, code)
}

func writeText(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(msg)); err != nil {
		slog.Error("server: failed to write text response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
