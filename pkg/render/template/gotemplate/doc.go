// Package gotemplate implements template.Executor with a pongo2 template set
// loaded from disk, an fs.FS, or both.
package gotemplate
