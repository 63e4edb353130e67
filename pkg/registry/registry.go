package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrUnknownVerb is returned when a verb name is not registered.
	ErrUnknownVerb = errors.New("registry: unknown verb")
	// ErrUnknownPlaceholder is returned when a placeholder name is not registered.
	ErrUnknownPlaceholder = errors.New("registry: unknown placeholder")
)

// WidgetKind enumerates the input controls a placeholder can render as.
type WidgetKind string

const (
	WidgetSelect WidgetKind = "select"
	WidgetRadio  WidgetKind = "radio"
)

// Valid reports whether k is one of the supported widget kinds.
func (k WidgetKind) Valid() bool {
	switch k {
	case WidgetSelect, WidgetRadio:
		return true
	default:
		return false
	}
}

// Verb is a named sentence template. Pattern embeds {placeholder} tokens
// between literal segments.
type Verb struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Option is one allowed value of a placeholder.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Placeholder describes how a placeholder token is rendered and which values
// it accepts.
type Placeholder struct {
	Name    string     `json:"name"`
	Widget  WidgetKind `json:"widget"`
	Options []Option   `json:"options"`
}

// Values returns the option values in declaration order.
func (p Placeholder) Values() []string {
	out := make([]string, 0, len(p.Options))
	for _, option := range p.Options {
		out = append(out, option.Value)
	}
	return out
}

// Allows reports whether value is one of the placeholder options.
func (p Placeholder) Allows(value string) bool {
	for _, option := range p.Options {
		if option.Value == value {
			return true
		}
	}
	return false
}

// Registry maps verb names to templates and placeholder names to their specs.
// A Registry is immutable once constructed and safe for concurrent reads.
type Registry struct {
	verbs        []Verb
	verbIndex    map[string]int
	placeholders map[string]Placeholder
	order        []string
}

// New validates the supplied tables and returns a registry. Verb patterns
// referencing unregistered placeholders are accepted; they fail when a row
// is rendered.
func New(verbs []Verb, placeholders []Placeholder) (*Registry, error) {
	reg := &Registry{
		verbs:        make([]Verb, 0, len(verbs)),
		verbIndex:    make(map[string]int, len(verbs)),
		placeholders: make(map[string]Placeholder, len(placeholders)),
		order:        make([]string, 0, len(placeholders)),
	}

	for _, verb := range verbs {
		name := strings.TrimSpace(verb.Name)
		if name == "" {
			return nil, fmt.Errorf("registry: verb name is required")
		}
		if _, exists := reg.verbIndex[name]; exists {
			return nil, fmt.Errorf("registry: duplicate verb %q", name)
		}
		if strings.TrimSpace(verb.Pattern) == "" {
			return nil, fmt.Errorf("registry: verb %q has an empty pattern", name)
		}
		reg.verbIndex[name] = len(reg.verbs)
		reg.verbs = append(reg.verbs, Verb{Name: name, Pattern: verb.Pattern})
	}

	for _, placeholder := range placeholders {
		name := strings.TrimSpace(placeholder.Name)
		if name == "" {
			return nil, fmt.Errorf("registry: placeholder name is required")
		}
		if _, exists := reg.placeholders[name]; exists {
			return nil, fmt.Errorf("registry: duplicate placeholder %q", name)
		}
		if !placeholder.Widget.Valid() {
			return nil, fmt.Errorf("registry: placeholder %q has unsupported widget %q", name, placeholder.Widget)
		}
		options, err := normalizeOptions(name, placeholder.Options)
		if err != nil {
			return nil, err
		}
		reg.placeholders[name] = Placeholder{Name: name, Widget: placeholder.Widget, Options: options}
		reg.order = append(reg.order, name)
	}

	return reg, nil
}

// MustNew mirrors New but panics on error.
func MustNew(verbs []Verb, placeholders []Placeholder) *Registry {
	reg, err := New(verbs, placeholders)
	if err != nil {
		panic(err)
	}
	return reg
}

// TemplateFor returns the verb template registered under name.
func (r *Registry) TemplateFor(name string) (Verb, error) {
	if r == nil {
		return Verb{}, fmt.Errorf("%w: %q", ErrUnknownVerb, name)
	}
	idx, ok := r.verbIndex[name]
	if !ok {
		return Verb{}, fmt.Errorf("%w: %q", ErrUnknownVerb, name)
	}
	return r.verbs[idx], nil
}

// SpecFor returns the placeholder spec registered under name. The returned
// options slice is a copy.
func (r *Registry) SpecFor(name string) (Placeholder, error) {
	if r == nil {
		return Placeholder{}, fmt.Errorf("%w: %q", ErrUnknownPlaceholder, name)
	}
	spec, ok := r.placeholders[name]
	if !ok {
		return Placeholder{}, fmt.Errorf("%w: %q", ErrUnknownPlaceholder, name)
	}
	spec.Options = append([]Option(nil), spec.Options...)
	return spec, nil
}

// Verbs returns the registered verb names in declaration order.
func (r *Registry) Verbs() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.verbs))
	for _, verb := range r.verbs {
		names = append(names, verb.Name)
	}
	return names
}

// VerbOptions returns the verbs as labelled options for dropdowns.
func (r *Registry) VerbOptions() []Option {
	if r == nil {
		return nil
	}
	out := make([]Option, 0, len(r.verbs))
	for _, verb := range r.verbs {
		out = append(out, Option{Value: verb.Name, Label: Humanize(verb.Name)})
	}
	return out
}

// Templates returns a copy of every registered verb in declaration order.
func (r *Registry) Templates() []Verb {
	if r == nil {
		return nil
	}
	return append([]Verb(nil), r.verbs...)
}

// Placeholders returns a copy of every registered placeholder in declaration
// order.
func (r *Registry) Placeholders() []Placeholder {
	if r == nil {
		return nil
	}
	out := make([]Placeholder, 0, len(r.order))
	for _, name := range r.order {
		spec := r.placeholders[name]
		spec.Options = append([]Option(nil), spec.Options...)
		out = append(out, spec)
	}
	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from the built-in tables.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustNew(DefaultVerbs(), DefaultPlaceholders())
	})
	return defaultRegistry
}

func normalizeOptions(placeholder string, options []Option) ([]Option, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("registry: placeholder %q has no options", placeholder)
	}
	out := make([]Option, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		value := strings.TrimSpace(option.Value)
		if value == "" {
			return nil, fmt.Errorf("registry: placeholder %q has an empty option value", placeholder)
		}
		if _, exists := seen[value]; exists {
			return nil, fmt.Errorf("registry: placeholder %q repeats option %q", placeholder, value)
		}
		seen[value] = struct{}{}
		label := strings.TrimSpace(option.Label)
		if label == "" {
			label = Humanize(value)
		}
		out = append(out, Option{Value: value, Label: label})
	}
	return out, nil
}
