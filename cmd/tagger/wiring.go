package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/components/tagger"
	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/journal"
	"github.com/goliatone/go-tagger/pkg/registry"
	"github.com/goliatone/go-tagger/pkg/renderers/vanilla"
	"github.com/goliatone/go-tagger/pkg/rows"
	"github.com/goliatone/go-tagger/pkg/submission"
)

// runtime is the set of long-lived services built once at startup.
type runtime struct {
	registry  *registry.Registry
	catalog   *cards.Catalog
	journal   *journal.Journal
	submitter *submission.Submitter
}

func (a *app) loadRegistry() (*registry.Registry, error) {
	reg := registry.Default()
	if dir := a.cfg.RegistryDir; dir != "" {
		loaded, err := registry.LoadFS(os.DirFS(dir), nil)
		if err != nil {
			return nil, err
		}
		reg = loaded
	}
	if err := rows.Validate(reg); err != nil {
		return nil, err
	}
	a.logger.Info("registry ready", zap.Int("verbs", len(reg.Verbs())), zap.Int("placeholders", len(reg.Placeholders())))
	return reg, nil
}

func (a *app) cardClient() *cards.Client {
	c := a.cfg.Cards
	return cards.NewClient(
		cards.WithBaseURL(c.APIURL),
		cards.WithAPIKey(c.APIKey),
		cards.WithConcurrency(c.Concurrency),
		cards.WithRate(c.RatePerSecond, c.Concurrency),
		cards.WithClientLogger(a.logger.Named("cards")),
	)
}

func (a *app) loadCatalog(ctx context.Context, refresh bool) (*cards.Catalog, error) {
	catalog, err := cards.Initialize(ctx,
		cards.WithCacheFile(a.cfg.Cards.CacheFile),
		cards.WithSeries(a.cfg.Cards.Series),
		cards.WithRefresh(refresh),
		cards.WithFetcher(a.cardClient()),
		cards.WithLogger(a.logger.Named("cards")),
	)
	if err != nil {
		return nil, err
	}
	if catalog.Len() == 0 {
		a.logger.Warn("card catalog is empty", zap.String("series", a.cfg.Cards.Series))
	}
	return catalog, nil
}

func (a *app) build(ctx context.Context) (*runtime, error) {
	reg, err := a.loadRegistry()
	if err != nil {
		return nil, err
	}
	catalog, err := a.loadCatalog(ctx, false)
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(a.cfg.LogPath, journal.WithLogger(a.logger.Named("journal")))
	if err != nil {
		return nil, err
	}
	return &runtime{
		registry:  reg,
		catalog:   catalog,
		journal:   j,
		submitter: submission.NewSubmitter(j, catalog, submission.WithLogger(a.logger.Named("submission"))),
	}, nil
}

func (a *app) renderer(reg *registry.Registry) (*vanilla.Renderer, error) {
	selector := vanilla.NewManifestSelector(a.cfg.Theme.Variant, vanilla.DefaultManifest())
	selection, err := selector.Select(a.cfg.Theme.Name, a.cfg.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	return vanilla.New(
		vanilla.WithVerbs(reg.VerbOptions()),
		vanilla.WithTheme(vanilla.RendererConfigFrom(selection)),
		vanilla.WithTemplatesDir(a.cfg.TemplatesDir),
	)
}

// handler mounts the tagger and a health probe under the configured base
// path.
func (a *app) handler(rt *runtime, renderer *vanilla.Renderer) (http.Handler, error) {
	mux := http.NewServeMux()
	routes, err := tagger.RegisterRoutes(mux, a.cfg.BasePath,
		tagger.WithRegistry(rt.registry),
		tagger.WithCards(rt.catalog),
		tagger.WithSubmitter(rt.submitter),
		tagger.WithRenderer(renderer),
		tagger.WithSessionTTL(a.cfg.SessionTTL),
		tagger.WithLogger(a.logger.Named("http")),
	)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("tagger mounted",
		zap.String("page", routes.Page),
		zap.String("home", routes.Home),
		zap.String("assets", routes.Assets))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux, nil
}
