package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and merges every JSON/YAML overlay file over base, in
// lexical path order. Entries sharing a name with an existing verb or
// placeholder replace it in place; new entries are appended. A nil fsys
// returns base unchanged. base defaults to Default() when nil.
func LoadFS(fsys fs.FS, base *Registry) (*Registry, error) {
	if base == nil {
		base = Default()
	}
	if fsys == nil {
		return base, nil
	}

	verbs := base.Templates()
	placeholders := base.Placeholders()

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverlayFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("registry: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, raw := range doc.Verbs {
			verb := Verb{Name: strings.TrimSpace(raw.Name), Pattern: sanitizeText(raw.Pattern)}
			if verb.Name == "" {
				return fmt.Errorf("registry: file %s defines a verb without a name", path)
			}
			verbs = upsertVerb(verbs, verb)
		}
		for _, raw := range doc.Placeholders {
			placeholder, err := raw.placeholder(path)
			if err != nil {
				return err
			}
			placeholders = upsertPlaceholder(placeholders, placeholder)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return New(verbs, placeholders)
}

type documentFile struct {
	Verbs        []Verb            `json:"verbs" yaml:"verbs"`
	Placeholders []placeholderFile `json:"placeholders" yaml:"placeholders"`
}

type placeholderFile struct {
	Name    string            `json:"name" yaml:"name"`
	Widget  string            `json:"widget" yaml:"widget"`
	Options []string          `json:"options" yaml:"options"`
	Labels  map[string]string `json:"labels" yaml:"labels"`
}

func (p placeholderFile) placeholder(source string) (Placeholder, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Placeholder{}, fmt.Errorf("registry: file %s defines a placeholder without a name", source)
	}
	widget := WidgetKind(strings.ToLower(strings.TrimSpace(p.Widget)))
	if widget == "" {
		widget = WidgetSelect
	}
	options := make([]Option, 0, len(p.Options))
	for _, value := range p.Options {
		options = append(options, Option{
			Value: strings.TrimSpace(value),
			Label: sanitizeText(p.Labels[value]),
		})
	}
	return Placeholder{Name: name, Widget: widget, Options: options}, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("registry: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("registry: parse %s: invalid JSON or YAML", source)
}

func upsertVerb(verbs []Verb, verb Verb) []Verb {
	for idx := range verbs {
		if verbs[idx].Name == verb.Name {
			verbs[idx] = verb
			return verbs
		}
	}
	return append(verbs, verb)
}

func upsertPlaceholder(placeholders []Placeholder, placeholder Placeholder) []Placeholder {
	for idx := range placeholders {
		if placeholders[idx].Name == placeholder.Name {
			placeholders[idx] = placeholder
			return placeholders
		}
	}
	return append(placeholders, placeholder)
}

func isOverlayFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
