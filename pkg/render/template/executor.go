package template

import "io"

// Executor renders the template called name with view and writes the result
// to w. Nothing is written when rendering fails.
type Executor interface {
	Execute(w io.Writer, name string, view any) error
}

// Reloader is implemented by executors that cache parsed templates and can
// drop that cache when the sources change on disk.
type Reloader interface {
	Reset()
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(w io.Writer, name string, view any) error

// Execute calls f.
func (f ExecutorFunc) Execute(w io.Writer, name string, view any) error {
	return f(w, name, view)
}
