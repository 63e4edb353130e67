package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultAPIURL is the base URL of the public card catalog API.
const DefaultAPIURL = "https://api.pokemontcg.io/v2"

// Set is a card set as reported by the catalog API.
type Set struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Series string `json:"series"`
}

type apiCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Images struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
}

type page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Count      int `json:"count"`
	TotalCount int `json:"totalCount"`
}

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL       string
	APIKey        string
	PageSize      int
	Concurrency   int
	RatePerSecond float64
	Burst         int
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// ClientOptionFn mutates ClientOptions.
type ClientOptionFn func(*ClientOptions)

// DefaultClientOptions returns the client defaults.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseURL:       DefaultAPIURL,
		PageSize:      250,
		Concurrency:   4,
		RatePerSecond: 5,
		Burst:         5,
		Timeout:       30 * time.Second,
	}
}

// WithAPIKey sets the X-Api-Key header sent with every request.
func WithAPIKey(key string) ClientOptionFn {
	return func(o *ClientOptions) { o.APIKey = strings.TrimSpace(key) }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) ClientOptionFn {
	return func(o *ClientOptions) { o.BaseURL = strings.TrimRight(strings.TrimSpace(base), "/") }
}

// WithPageSize sets the page size requested per call.
func WithPageSize(size int) ClientOptionFn {
	return func(o *ClientOptions) { o.PageSize = size }
}

// WithConcurrency bounds the number of sets fetched in parallel.
func WithConcurrency(n int) ClientOptionFn {
	return func(o *ClientOptions) { o.Concurrency = n }
}

// WithRate limits outgoing requests to perSecond with the given burst.
func WithRate(perSecond float64, burst int) ClientOptionFn {
	return func(o *ClientOptions) {
		o.RatePerSecond = perSecond
		o.Burst = burst
	}
}

// WithHTTPClient injects the HTTP client used for requests.
func WithHTTPClient(client *http.Client) ClientOptionFn {
	return func(o *ClientOptions) { o.HTTPClient = client }
}

// WithClientLogger attaches a logger.
func WithClientLogger(logger *zap.Logger) ClientOptionFn {
	return func(o *ClientOptions) { o.Logger = logger }
}

// Client fetches cards from the remote catalog API.
type Client struct {
	opts    ClientOptions
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient builds a client from the defaults plus any overrides.
func NewClient(fns ...ClientOptionFn) *Client {
	opts := DefaultClientOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAPIURL
	}
	if opts.PageSize <= 0 || opts.PageSize > 250 {
		opts.PageSize = 250
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		opts:    opts,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, opts.Burst),
		logger:  logger,
	}
}

// Sets lists every set belonging to series.
func (c *Client) Sets(ctx context.Context, series string) ([]Set, error) {
	query := fmt.Sprintf("series:%q", series)
	return fetchAll[Set](ctx, c, "/sets", query)
}

// CardsInSet lists every card of a set, following pagination.
func (c *Client) CardsInSet(ctx context.Context, setID string) ([]Card, error) {
	raw, err := fetchAll[apiCard](ctx, c, "/cards", fmt.Sprintf("set.id:%q", setID))
	if err != nil {
		return nil, err
	}
	out := make([]Card, 0, len(raw))
	for _, card := range raw {
		image := card.Images.Large
		if image == "" {
			image = card.Images.Small
		}
		out = append(out, Card{ID: card.ID, ImageURL: image})
	}
	return out, nil
}

// FetchSeries fetches every card of every set in series. Sets are fetched in
// parallel up to the configured concurrency; the result keeps set order.
func (c *Client) FetchSeries(ctx context.Context, series string) ([]Card, error) {
	sets, err := c.Sets(ctx, series)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetching cards by series", zap.String("series", series), zap.Int("sets", len(sets)))

	perSet := make([][]Card, len(sets))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.opts.Concurrency)
	for idx, set := range sets {
		group.Go(func() error {
			c.logger.Debug("processing set", zap.String("set", set.ID), zap.String("name", set.Name))
			cards, err := c.CardsInSet(groupCtx, set.ID)
			if err != nil {
				return fmt.Errorf("cards: set %s: %w", set.ID, err)
			}
			perSet[idx] = cards
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var out []Card
	for _, cards := range perSet {
		out = append(out, cards...)
	}
	return out, nil
}

func fetchAll[T any](ctx context.Context, c *Client, path, query string) ([]T, error) {
	var out []T
	for pageNum := 1; ; pageNum++ {
		var result page[T]
		if err := c.get(ctx, path, query, pageNum, &result); err != nil {
			return nil, err
		}
		out = append(out, result.Data...)
		if len(result.Data) == 0 || len(out) >= result.TotalCount {
			return out, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path, query string, pageNum int, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("cards: rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(pageNum))
	params.Set("pageSize", strconv.Itoa(c.opts.PageSize))
	endpoint := c.opts.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("cards: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("X-Api-Key", c.opts.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cards: fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("cards: fetch %s: unexpected status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("cards: decode %s: %w", path, err)
	}
	return nil
}
