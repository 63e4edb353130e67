package rows

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/goliatone/go-tagger/pkg/registry"
)

// Templates is the registry surface the renderer needs.
type Templates interface {
	TemplateFor(verb string) (registry.Verb, error)
	SpecFor(placeholder string) (registry.Placeholder, error)
}

// FieldID identifies one rendered input: the owning row, the verb it was
// rendered for, the placeholder name and its 1-based occurrence within the
// template.
type FieldID struct {
	Row         uuid.UUID `json:"row"`
	Verb        string    `json:"verb"`
	Placeholder string    `json:"placeholder"`
	Occurrence  int       `json:"occurrence"`
}

// String returns the wire name used for form inputs:
// "<row>:<verb>:<placeholder>-<occurrence>".
func (id FieldID) String() string {
	return id.Row.String() + ":" + id.Verb + ":" + id.Key()
}

// Key returns the per-row option key, "<placeholder>-<occurrence>".
func (id FieldID) Key() string {
	return id.Placeholder + "-" + strconv.Itoa(id.Occurrence)
}

// ElementKind distinguishes literal text from input controls.
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementInput
)

// Element is one item of a rendered row, in display order.
type Element struct {
	Kind        ElementKind
	Text        string
	Field       FieldID
	Placeholder registry.Placeholder
}

// RenderFields tokenizes the verb's template and emits literal elements
// interleaved with one input element per placeholder occurrence. Occurrence
// counters start at 1 and are scoped to this call, so equal inputs always
// produce equal field ids.
func RenderFields(reg Templates, verb string, rowID uuid.UUID) ([]Element, error) {
	if reg == nil {
		return nil, fmt.Errorf("rows: registry is nil")
	}
	tmpl, err := reg.TemplateFor(verb)
	if err != nil {
		return nil, err
	}
	segments, err := Tokenize(tmpl.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rows: verb %q: %w", verb, err)
	}

	elements := make([]Element, 0, len(segments))
	counts := make(map[string]int)
	for _, segment := range segments {
		if segment.Kind == SegmentLiteral {
			if segment.Text != "" {
				elements = append(elements, Element{Kind: ElementText, Text: segment.Text})
			}
			continue
		}

		spec, err := reg.SpecFor(segment.Text)
		if err != nil {
			return nil, fmt.Errorf("rows: verb %q: %w", verb, err)
		}
		counts[segment.Text]++
		elements = append(elements, Element{
			Kind: ElementInput,
			Field: FieldID{
				Row:         rowID,
				Verb:        verb,
				Placeholder: segment.Text,
				Occurrence:  counts[segment.Text],
			},
			Placeholder: spec,
		})
	}
	return elements, nil
}

// FieldIDs extracts the input field ids from elements, in order.
func FieldIDs(elements []Element) []FieldID {
	var out []FieldID
	for _, element := range elements {
		if element.Kind == ElementInput {
			out = append(out, element.Field)
		}
	}
	return out
}

// Validate tokenizes every registered template and checks each placeholder
// reference resolves. It reports the first failure.
func Validate(reg *registry.Registry) error {
	for _, verb := range reg.Templates() {
		if _, err := RenderFields(reg, verb.Name, uuid.Nil); err != nil {
			return err
		}
	}
	return nil
}
