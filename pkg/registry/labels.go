package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns an option value into a display label: dashes and
// underscores become spaces and each word is title-cased, so "discard-pile"
// reads "Discard Pile".
func Humanize(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(trimmed)
	return cases.Title(language.English).String(strings.Join(strings.Fields(spaced), " "))
}
