// Package components maps placeholder widget kinds to the templates that
// render their HTML controls.
package components
