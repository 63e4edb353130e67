// Package template defines the template rendering seam page renderers depend
// on. The pongo2 implementation lives in the gotemplate subpackage.
package template
