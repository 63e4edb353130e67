package tagger

import (
	"errors"
	"net/http"
	"path"
	"strings"
)

// Mux is what RegisterRoutes needs from a router. *http.ServeMux satisfies
// it.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes reports where a registered tagger is reachable. Home and Assets
// are empty when disabled.
type Routes struct {
	Page   string
	Home   string
	Assets string
}

// ResolveRoutes computes the paths RegisterRoutes would use under basePath.
func ResolveRoutes(basePath string, fns ...OptionFn) Routes {
	return resolveRoutes(basePath, NewOptions(fns...))
}

// RegisterRoutes mounts the tagger page and its JSON API, the home page and
// the stylesheet under basePath.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions is RegisterRoutes with a pre-built Options
// value. Zero fields fall back to their defaults.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	if mux == nil {
		return Routes{}, errors.New("tagger: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	h, err := newHandler(resolveRoutes(basePath, opts), opts)
	if err != nil {
		return Routes{}, err
	}
	routes := h.routes

	// The page handles its own subtree: /state, /rows and friends.
	mux.Handle(routes.Page, h)
	if routes.Page != "/" {
		mux.Handle(routes.Page+"/", h)
	}
	if routes.Home != "" && routes.Home != routes.Page {
		mux.Handle("GET "+exact(routes.Home), h.logged(http.HandlerFunc(h.serveHome)))
	}
	if routes.Assets != "" {
		mux.Handle("GET "+routes.Assets, h.assetHandler())
	}
	return routes, nil
}

func resolveRoutes(basePath string, opts Options) Routes {
	routes := Routes{Page: joinRoute(basePath, opts.RoutePath)}
	if strings.TrimSpace(opts.HomePath) != "" {
		routes.Home = joinRoute(basePath, opts.HomePath)
	}
	if strings.TrimSpace(opts.AssetsPath) != "" {
		routes.Assets = strings.TrimSuffix(joinRoute(basePath, opts.AssetsPath), "/") + "/"
	}
	return routes
}

// joinRoute joins base and route into a clean absolute path without a
// trailing slash.
func joinRoute(base, route string) string {
	return path.Join("/", strings.TrimSpace(base), strings.TrimSpace(route))
}

// exact turns a path into a ServeMux pattern matching only that path.
func exact(p string) string {
	if p == "/" {
		return "/{$}"
	}
	return p
}
