package gotemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-tagger/pkg/registry"
	"github.com/goliatone/go-tagger/pkg/render/template"
)

// DefaultExtension is appended to template names that have none.
const DefaultExtension = ".tmpl"

// Filter is a pongo2 filter body without the pongo2 value wrapping.
type Filter func(input string, param any) (string, error)

// Option configures the engine before construction.
type Option func(*settings)

type settings struct {
	dir     string
	files   fs.FS
	filters map[string]Filter
	globals pongo2.Context
	live    bool
}

// WithDir loads templates from a directory on disk. Files found there
// shadow the ones in the fs.FS passed to WithFS.
func WithDir(dir string) Option {
	return func(s *settings) { s.dir = strings.TrimSpace(dir) }
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(s *settings) { s.files = files }
}

// WithFilter exposes fn to templates under name. pongo2 filters are
// process-global; a name registered by an earlier engine keeps its first
// implementation.
func WithFilter(name string, fn Filter) Option {
	return func(s *settings) {
		if s.filters == nil {
			s.filters = make(map[string]Filter)
		}
		s.filters[strings.TrimSpace(name)] = fn
	}
}

// WithGlobal makes value visible to every template as key.
func WithGlobal(key string, value any) Option {
	return func(s *settings) {
		if s.globals == nil {
			s.globals = make(pongo2.Context)
		}
		s.globals[strings.TrimSpace(key)] = value
	}
}

// WithLiveReload re-reads templates on every render.
func WithLiveReload() Option {
	return func(s *settings) { s.live = true }
}

// Engine is a pongo2-backed template.Executor. Compiled templates are kept
// until Reset.
type Engine struct {
	set      *pongo2.TemplateSet
	live     bool
	compiles singleflight.Group

	mu       sync.RWMutex
	compiled map[string]*pongo2.Template
}

var (
	_ template.Executor = (*Engine)(nil)
	_ template.Reloader = (*Engine)(nil)
)

// New builds an engine. At least one of WithDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	var s settings
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}

	var loaders []pongo2.TemplateLoader
	if s.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(s.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: templates dir %q: %w", s.dir, err)
		}
		loaders = append(loaders, local)
	}
	if s.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(s.files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("gotemplate: a templates dir or fs.FS is required")
	}

	set := pongo2.NewSet("tagger", loaders...)
	set.Debug = s.live
	set.Globals = pongo2.Context{}
	for key, value := range s.globals {
		if key != "" {
			set.Globals[key] = value
		}
	}

	builtins := map[string]Filter{
		"trim":     func(in string, _ any) (string, error) { return strings.TrimSpace(in), nil },
		"humanize": func(in string, _ any) (string, error) { return registry.Humanize(in), nil },
	}
	for name, fn := range builtins {
		if err := register(name, fn); err != nil {
			return nil, err
		}
	}
	for name, fn := range s.filters {
		if err := register(name, fn); err != nil {
			return nil, err
		}
	}

	return &Engine{
		set:      set,
		live:     s.live,
		compiled: make(map[string]*pongo2.Template),
	}, nil
}

// Execute renders the named template. DefaultExtension is appended when name
// has no extension. Struct views are exposed through their JSON field names.
func (e *Engine) Execute(w io.Writer, name string, view any) error {
	if e == nil {
		return errors.New("gotemplate: nil engine")
	}
	file := name
	if path.Ext(file) == "" {
		file += DefaultExtension
	}
	tmpl, err := e.template(file)
	if err != nil {
		return err
	}
	ctx, err := contextOf(view)
	if err != nil {
		return fmt.Errorf("gotemplate: view for %q: %w", file, err)
	}
	if err := tmpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("gotemplate: execute %q: %w", file, err)
	}
	return nil
}

// ExecuteString renders the named template and returns the output.
func (e *Engine) ExecuteString(name string, view any) (string, error) {
	var b strings.Builder
	if err := e.Execute(&b, name, view); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Reset drops every compiled template so the next render re-reads its source.
func (e *Engine) Reset() {
	if e == nil {
		return
	}
	e.mu.Lock()
	clear(e.compiled)
	e.mu.Unlock()
}

func (e *Engine) template(file string) (*pongo2.Template, error) {
	if e.live {
		return e.compile(file)
	}
	e.mu.RLock()
	tmpl, ok := e.compiled[file]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	// Concurrent first renders of the same page share one compile.
	v, err, _ := e.compiles.Do(file, func() (any, error) {
		tmpl, err := e.compile(file)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		e.compiled[file] = tmpl
		e.mu.Unlock()
		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*pongo2.Template), nil
}

func (e *Engine) compile(file string) (*pongo2.Template, error) {
	tmpl, err := e.set.FromFile(file)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", file, err)
	}
	return tmpl, nil
}

func register(name string, fn Filter) error {
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter needs a name and a function")
	}
	if pongo2.FilterExists(name) {
		return nil
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		out, err := fn(in.String(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	})
}

// contextOf turns view data into a pongo2 context. Maps are used as they
// are; anything else goes through its JSON encoding and must encode to an
// object.
func contextOf(view any) (pongo2.Context, error) {
	switch v := view.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("view must encode to a JSON object, got %T", view)
	}
	return pongo2.Context(out), nil
}
