package components

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/goliatone/go-tagger/pkg/registry"
	rendertemplate "github.com/goliatone/go-tagger/pkg/render/template"
	"github.com/goliatone/go-tagger/pkg/rows"
)

// Field is one rendered input of a row and the value it currently holds.
type Field struct {
	Element rows.Element
	Value   string
}

// Env is what a widget can use while rendering.
type Env struct {
	Templates rendertemplate.Executor
	// Overrides maps partial keys to replacement template paths.
	Overrides map[string]string
}

// Widget writes the HTML control for one field.
type Widget interface {
	RenderField(w io.Writer, field Field, env Env) error
}

// WidgetFunc adapts a function to Widget.
type WidgetFunc func(w io.Writer, field Field, env Env) error

// RenderField calls f.
func (f WidgetFunc) RenderField(w io.Writer, field Field, env Env) error {
	return f(w, field, env)
}

// Set maps placeholder widget kinds to the widgets rendering them. It is
// safe for concurrent use.
type Set struct {
	mu      sync.RWMutex
	widgets map[registry.WidgetKind]Widget
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{widgets: make(map[registry.WidgetKind]Widget)}
}

// Use installs widget for kind, replacing any previous one.
func (s *Set) Use(kind registry.WidgetKind, widget Widget) error {
	if !kind.Valid() {
		return fmt.Errorf("components: unsupported widget kind %q", kind)
	}
	if widget == nil {
		return fmt.Errorf("components: widget for %q is nil", kind)
	}
	s.mu.Lock()
	s.widgets[kind] = widget
	s.mu.Unlock()
	return nil
}

// Lookup returns the widget installed for kind.
func (s *Set) Lookup(kind registry.WidgetKind) (Widget, error) {
	s.mu.RLock()
	widget, ok := s.widgets[kind]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("components: no widget for %q", kind)
	}
	return widget, nil
}

// Kinds lists the covered widget kinds, sorted.
func (s *Set) Kinds() []registry.WidgetKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kinds := make([]registry.WidgetKind, 0, len(s.widgets))
	for kind := range s.widgets {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
