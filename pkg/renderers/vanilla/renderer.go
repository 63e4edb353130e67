package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/form"
	"github.com/goliatone/go-tagger/pkg/registry"
	rendertemplate "github.com/goliatone/go-tagger/pkg/render/template"
	gotemplate "github.com/goliatone/go-tagger/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tagger/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-tagger/pkg/rows"
)

const (
	templatePage = "templates/page.tmpl"
	templateRow  = "templates/row.tmpl"
	templateHome = "templates/home.tmpl"
)

// AlertLevel maps to the alert styling on the page.
type AlertLevel string

const (
	AlertSuccess AlertLevel = "success"
	AlertWarning AlertLevel = "warning"
	AlertDanger  AlertLevel = "danger"
)

// Alert is a one-shot message shown above the form.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
}

// Page is everything the tagger page shows.
type Page struct {
	Title         string
	BasePath      string
	HomePath      string
	Stylesheet    string
	User          string
	Card          cards.Card
	Rows          []form.Row
	SubmitEnabled bool
	Alert         *Alert
}

type Option func(*config)

type config struct {
	templateFS fs.FS
	executor   rendertemplate.Executor
	widgets    *components.Set
	verbs      []registry.Option
	theme      *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithExecutor renders through a custom template executor instead of the
// bundled pongo2 engine.
func WithExecutor(executor rendertemplate.Executor) Option {
	return func(cfg *config) {
		if executor != nil {
			cfg.executor = executor
		}
	}
}

// WithWidgets replaces the widget set used for field controls.
func WithWidgets(set *components.Set) Option {
	return func(cfg *config) {
		if set != nil {
			cfg.widgets = set
		}
	}
}

// WithVerbs sets the verb dropdown entries.
func WithVerbs(verbs []registry.Option) Option {
	return func(cfg *config) {
		cfg.verbs = append([]registry.Option(nil), verbs...)
	}
}

// WithTheme applies a resolved theme: partial overrides, CSS variables and
// stylesheet asset.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// Renderer produces the tagger HTML pages.
type Renderer struct {
	templates rendertemplate.Executor
	widgets   *components.Set
	verbs     []registry.Option
	theme     *theme.RendererConfig
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.widgets == nil {
		cfg.widgets = components.Defaults()
	}
	if cfg.verbs == nil {
		cfg.verbs = registry.Default().VerbOptions()
	}

	executor := cfg.executor
	if executor == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: template engine: %w", err)
		}
		executor = engine
	}

	return &Renderer{
		templates: executor,
		widgets:   cfg.widgets,
		verbs:     cfg.verbs,
		theme:     cfg.theme,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Reset drops cached templates when the underlying engine supports it.
func (r *Renderer) Reset() {
	if reloader, ok := r.templates.(rendertemplate.Reloader); ok {
		reloader.Reset()
	}
}

type elementView struct {
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
}

type rowView struct {
	ID       string            `json:"id"`
	Verb     string            `json:"verb"`
	VerbName string            `json:"verb_name"`
	Verbs    []registry.Option `json:"verbs"`
	Elements []elementView     `json:"elements"`
}

type pageView struct {
	Title         string     `json:"title"`
	BasePath      string     `json:"base_path"`
	HomePath      string     `json:"home_path"`
	ApplyPath     string     `json:"apply_path"`
	Stylesheet    string     `json:"stylesheet"`
	User          string     `json:"user,omitempty"`
	Card          cards.Card `json:"card"`
	Rows          []string   `json:"rows"`
	SubmitEnabled bool       `json:"submit_enabled"`
	Alert         *Alert     `json:"alert,omitempty"`
	Theme         themeView  `json:"theme"`
}

// VerbFieldName is the form input name carrying a row's verb.
func VerbFieldName(row string) string {
	return "verb:" + row
}

// RenderPage renders the full tagger page.
func (r *Renderer) RenderPage(_ context.Context, page Page) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	rendered := make([]string, 0, len(page.Rows))
	for _, row := range page.Rows {
		markup, err := r.RenderRow(row)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, markup)
	}

	basePath := strings.TrimRight(page.BasePath, "/")
	view := pageView{
		Title:         defaultString(page.Title, "Card Tagger"),
		BasePath:      defaultString(basePath, "/"),
		HomePath:      defaultString(page.HomePath, "/"),
		ApplyPath:     basePath + "/apply",
		Stylesheet:    r.stylesheet(page.Stylesheet),
		User:          page.User,
		Card:          page.Card,
		Rows:          rendered,
		SubmitEnabled: page.SubmitEnabled,
		Alert:         page.Alert,
		Theme:         buildThemeView(r.theme),
	}
	return r.render(components.PartialPage, templatePage, view)
}

// RenderHome renders the landing page linking to the tagger.
func (r *Renderer) RenderHome(_ context.Context, page Page) ([]byte, error) {
	view := pageView{
		Title:      defaultString(page.Title, "Card Tagger"),
		BasePath:   defaultString(strings.TrimRight(page.BasePath, "/"), "/"),
		Stylesheet: r.stylesheet(page.Stylesheet),
		Theme:      buildThemeView(r.theme),
	}
	return r.render(components.PartialHome, templateHome, view)
}

// RenderRow renders one row: verb dropdown, literal text, one control per
// field, and the remove button.
func (r *Renderer) RenderRow(row form.Row) (string, error) {
	values := make(map[string]string, len(row.Fields))
	for _, field := range row.Fields {
		values[field.Name] = field.Value
	}

	env := components.Env{Templates: r.templates, Overrides: r.partials()}
	elements := make([]elementView, 0, len(row.Elements))
	for _, element := range row.Elements {
		if element.Kind == rows.ElementText {
			elements = append(elements, elementView{Text: element.Text})
			continue
		}
		widget, err := r.widgets.Lookup(element.Placeholder.Widget)
		if err != nil {
			return "", fmt.Errorf("vanilla renderer: field %s: %w", element.Field, err)
		}
		var buf bytes.Buffer
		field := components.Field{Element: element, Value: values[element.Field.String()]}
		if err := widget.RenderField(&buf, field, env); err != nil {
			return "", fmt.Errorf("vanilla renderer: field %s: %w", element.Field, err)
		}
		elements = append(elements, elementView{HTML: buf.String()})
	}

	id := row.ID.String()
	view := rowView{
		ID:       id,
		Verb:     row.Verb,
		VerbName: VerbFieldName(id),
		Verbs:    r.verbs,
		Elements: elements,
	}
	out, err := r.render(components.PartialRow, templateRow, view)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *Renderer) render(partialKey, fallback string, view any) ([]byte, error) {
	name := fallback
	if candidate := strings.TrimSpace(r.partials()[partialKey]); candidate != "" {
		name = candidate
	}
	var buf bytes.Buffer
	if err := r.templates.Execute(&buf, name, view); err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) partials() map[string]string {
	if r.theme == nil {
		return nil
	}
	return r.theme.Partials
}

func (r *Renderer) stylesheet(explicit string) string {
	if r.theme != nil && r.theme.AssetURL != nil {
		if url := r.theme.AssetURL(ThemeAssetStylesheet); url != "" {
			return url
		}
	}
	return defaultString(explicit, "/assets/"+StylesheetName)
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
