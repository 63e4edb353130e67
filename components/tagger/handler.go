package tagger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/renderers/vanilla"
	"github.com/goliatone/go-tagger/pkg/submission"
)

// PageRenderer produces the HTML documents served by the tagger.
type PageRenderer interface {
	RenderPage(ctx context.Context, page vanilla.Page) ([]byte, error)
	RenderHome(ctx context.Context, page vanilla.Page) ([]byte, error)
}

// HTTPError allows guard and event errors to choose the response status code.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a simple HTTPError implementation.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Code)
	}
	return e.Err.Error()
}

func (e StatusError) Unwrap() error {
	return e.Err
}

func (e StatusError) StatusCode() int {
	if e.Code == 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

func statusErrorf(code int, format string, args ...any) error {
	return StatusError{Code: code, Err: fmt.Errorf(format, args...)}
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}

type handler struct {
	opts     Options
	routes   Routes
	sessions *sessionStore
	logger   *zap.Logger
	mux      *http.ServeMux
}

func newHandler(routes Routes, opts Options) (*handler, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("tagger: renderer is required")
	}
	if opts.Submitter == nil {
		return nil, fmt.Errorf("tagger: submitter is required")
	}
	h := &handler{
		opts:     opts,
		routes:   routes,
		sessions: newSessionStore(opts),
		logger:   opts.Logger,
		mux:      http.NewServeMux(),
	}

	prefix := strings.TrimSuffix(routes.Page, "/")
	h.mux.HandleFunc("GET "+exact(routes.Page), h.servePage)
	h.mux.HandleFunc("POST "+prefix+"/apply", h.serveApply)
	h.mux.HandleFunc("GET "+prefix+"/state", h.api(h.apiState))
	h.mux.HandleFunc("POST "+prefix+"/rows", h.api(h.apiAddRow))
	h.mux.HandleFunc("POST "+prefix+"/rows/remove", h.api(h.apiRemoveRow))
	h.mux.HandleFunc("POST "+prefix+"/rows/verb", h.api(h.apiSelectVerb))
	h.mux.HandleFunc("POST "+prefix+"/fields", h.api(h.apiSetField))
	h.mux.HandleFunc("POST "+prefix+"/submit", h.api(h.apiSubmit))
	h.mux.HandleFunc("POST "+prefix+"/new-card", h.api(h.apiNewCard))
	return h, nil
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logged(http.HandlerFunc(h.serveGuarded)).ServeHTTP(w, r)
}

func (h *handler) serveGuarded(w http.ResponseWriter, r *http.Request) {
	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}
	h.mux.ServeHTTP(w, r)
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *handler) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// userFrom returns the basic-auth username, or the anonymous user.
func userFrom(r *http.Request) string {
	if name, _, ok := r.BasicAuth(); ok && name != "" {
		return name
	}
	return submission.AnonymousUser
}
