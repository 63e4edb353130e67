package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/form"
	"github.com/goliatone/go-tagger/pkg/registry"
)

// Theme captures message prefixes the session applies when printing.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	ErrorPrefix   string
}

// DefaultTheme is used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{InfoPrefix: "::", SuccessPrefix: "✔", ErrorPrefix: "✖"}
}

// Option configures a Session.
type Option func(*Session)

// WithPrompter overrides the terminal surface used by the session.
func WithPrompter(prompt Prompter) Option {
	return func(s *Session) {
		if prompt != nil {
			s.prompt = prompt
		}
	}
}

// WithRegistry sets the verb and placeholder tables.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithUser sets the identity recorded with each submission.
func WithUser(user string) Option {
	return func(s *Session) {
		s.user = user
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFormOptions passes options to every form the session creates.
func WithFormOptions(opts ...form.Option) Option {
	return func(s *Session) {
		s.formOpts = append(s.formOpts, opts...)
	}
}
