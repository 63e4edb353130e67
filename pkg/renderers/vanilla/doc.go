// Package vanilla renders the tagger pages as server-side HTML. Widget
// controls are dispatched by placeholder widget kind through the components
// registry; an optional go-theme selection supplies partial overrides and
// CSS variables.
package vanilla
