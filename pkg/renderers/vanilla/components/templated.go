package components

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-tagger/pkg/registry"
)

const widgetDir = "templates/widgets/"

// Defaults returns a set covering every widget kind with the bundled
// templates.
func Defaults() *Set {
	set := NewSet()
	must(set.Use(registry.WidgetSelect, Templated(PartialSelect, widgetDir+"select.tmpl")))
	must(set.Use(registry.WidgetRadio, Templated(PartialRadio, widgetDir+"radio.tmpl")))
	return set
}

type fieldView struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Placeholder string `json:"placeholder"`
	Label       string `json:"label"`
}

type widgetView struct {
	Field   fieldView         `json:"field"`
	Value   string            `json:"value"`
	Options []registry.Option `json:"options"`
}

// Templated renders a field through file, or through the template an Env
// override names under partial.
func Templated(partial, file string) Widget {
	return WidgetFunc(func(w io.Writer, field Field, env Env) error {
		if env.Templates == nil {
			return fmt.Errorf("components: no template executor for %q", file)
		}
		name := file
		if override := strings.TrimSpace(env.Overrides[partial]); override != "" {
			name = override
		}

		id := field.Element.Field
		view := widgetView{
			Field: fieldView{
				Name:        id.String(),
				Key:         id.Key(),
				Placeholder: id.Placeholder,
				Label:       registry.Humanize(id.Placeholder),
			},
			Value:   field.Value,
			Options: field.Element.Placeholder.Options,
		}
		// Render into a buffer so a failed field leaves w untouched.
		var buf bytes.Buffer
		if err := env.Templates.Execute(&buf, name, view); err != nil {
			return fmt.Errorf("components: %s field %s: %w", id.Placeholder, id.Key(), err)
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
