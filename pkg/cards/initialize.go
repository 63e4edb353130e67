package cards

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// DefaultSeries is the card series the tagger draws from.
const DefaultSeries = "Scarlet & Violet"

// DefaultCacheFile is where fetched cards are cached between runs.
const DefaultCacheFile = ".sv_cards.json"

// Fetcher retrieves every card of a series from a remote source.
type Fetcher interface {
	FetchSeries(ctx context.Context, series string) ([]Card, error)
}

// Options configures Initialize.
type Options struct {
	CacheFile string
	Series    string
	Refresh   bool
	Fetcher   Fetcher
	Rand      *rand.Rand
	Logger    *zap.Logger
	Now       func() time.Time
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// WithCacheFile sets the cache location.
func WithCacheFile(path string) OptionFn {
	return func(o *Options) { o.CacheFile = path }
}

// WithSeries sets the series to fetch when the cache is cold.
func WithSeries(series string) OptionFn {
	return func(o *Options) { o.Series = series }
}

// WithRefresh forces a fetch even when a cache file exists.
func WithRefresh(refresh bool) OptionFn {
	return func(o *Options) { o.Refresh = refresh }
}

// WithFetcher sets the remote source used on a cold cache.
func WithFetcher(fetcher Fetcher) OptionFn {
	return func(o *Options) { o.Fetcher = fetcher }
}

// WithRand seeds the catalog's random source.
func WithRand(rng *rand.Rand) OptionFn {
	return func(o *Options) { o.Rand = rng }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) { o.Logger = logger }
}

// Initialize loads the card catalog once at process start. The on-disk cache
// is used when present; otherwise every card of the series is fetched and
// the cache is written. The returned catalog is read-only.
func Initialize(ctx context.Context, fns ...OptionFn) (*Catalog, error) {
	opts := Options{CacheFile: DefaultCacheFile, Series: DefaultSeries, Now: time.Now}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !opts.Refresh && opts.CacheFile != "" {
		cached, err := ReadCache(opts.CacheFile)
		switch {
		case err == nil:
			logger.Info("loaded card cache", zap.String("path", opts.CacheFile), zap.Int("cards", len(cached)))
			return NewCatalog(cached, opts.Rand), nil
		case errors.Is(err, fs.ErrNotExist):
			logger.Info("card cache missing", zap.String("path", opts.CacheFile))
		default:
			return nil, err
		}
	}

	if opts.Fetcher == nil {
		return nil, fmt.Errorf("%w: no cache at %q and no fetcher configured", ErrCardUnavailable, opts.CacheFile)
	}
	fetched, err := opts.Fetcher.FetchSeries(ctx, opts.Series)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCardUnavailable, err)
	}
	if opts.CacheFile != "" {
		if err := WriteCache(opts.CacheFile, opts.Series, fetched, opts.Now()); err != nil {
			return nil, err
		}
		logger.Info("wrote card cache", zap.String("path", opts.CacheFile), zap.Int("cards", len(fetched)))
	}
	return NewCatalog(fetched, opts.Rand), nil
}
