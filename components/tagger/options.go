package tagger

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/registry"
	"github.com/goliatone/go-tagger/pkg/submission"
)

const (
	defaultRoutePath  = "/tagger"
	defaultCookieName = "tagger_session"
	defaultSessionTTL = 12 * time.Hour
	defaultCleanup    = 10 * time.Minute
	defaultMaxBody    = 1 << 20
)

// GuardFunc rejects a request before any session state is touched. Returning
// an HTTPError selects the response status.
type GuardFunc func(r *http.Request) error

// Options configures the tagger routes. Renderer and Submitter are required;
// Cards may be nil, in which case every draw fails and the page shows the
// card-unavailable warning.
type Options struct {
	RoutePath  string
	HomePath   string
	AssetsPath string

	CookieName   string
	CookieSecure bool
	// SessionTTL is the idle time after which a session's form is dropped.
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	MaxBodyBytes    int64
	Guard           GuardFunc

	Registry  *registry.Registry
	Cards     cards.Provider
	Submitter *submission.Submitter
	Renderer  PageRenderer
	Logger    *zap.Logger
	NewID     func() uuid.UUID
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       defaultRoutePath,
		HomePath:        "/",
		AssetsPath:      "/assets",
		CookieName:      defaultCookieName,
		SessionTTL:      defaultSessionTTL,
		CleanupInterval: defaultCleanup,
		MaxBodyBytes:    defaultMaxBody,
	}
}

// NewOptions applies fns over the defaults. Zero values of required
// settings are restored afterwards; HomePath and AssetsPath may stay empty.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}

	opts.RoutePath = orDefault(opts.RoutePath, defaultRoutePath)
	opts.CookieName = orDefault(opts.CookieName, defaultCookieName)
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanup
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	if opts.Registry == nil {
		opts.Registry = registry.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.New
	}
	return opts
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

// WithHomePath sets where the landing page is served. An empty path
// disables it.
func WithHomePath(path string) OptionFn {
	return func(o *Options) { o.HomePath = path }
}

// WithAssetsPath sets where the stylesheet is served. An empty path
// disables it.
func WithAssetsPath(path string) OptionFn {
	return func(o *Options) { o.AssetsPath = path }
}

// WithCookie names the session cookie. Secure should be set when the
// tagger is only reachable over TLS.
func WithCookie(name string, secure bool) OptionFn {
	return func(o *Options) {
		o.CookieName = name
		o.CookieSecure = secure
	}
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) { o.SessionTTL = ttl }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

func WithRegistry(reg *registry.Registry) OptionFn {
	return func(o *Options) { o.Registry = reg }
}

func WithCards(provider cards.Provider) OptionFn {
	return func(o *Options) { o.Cards = provider }
}

func WithSubmitter(submitter *submission.Submitter) OptionFn {
	return func(o *Options) { o.Submitter = submitter }
}

func WithRenderer(renderer PageRenderer) OptionFn {
	return func(o *Options) { o.Renderer = renderer }
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) { o.Logger = logger }
}

// WithIDSource overrides the generator used for session and row ids.
func WithIDSource(fn func() uuid.UUID) OptionFn {
	return func(o *Options) { o.NewID = fn }
}
