package rows

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tagger/pkg/registry"
)

func TestTokenize_RoundTripsRegistryTemplates(t *testing.T) {
	for _, verb := range registry.Default().Templates() {
		segments, err := Tokenize(verb.Pattern)
		if err != nil {
			t.Fatalf("tokenize %q: %v", verb.Name, err)
		}
		if got := Join(segments); got != verb.Pattern {
			t.Fatalf("round trip mismatch for %q\nwant: %q\n got: %q", verb.Name, verb.Pattern, got)
		}
	}
}

func TestTokenize_RoundTripsEdgePatterns(t *testing.T) {
	patterns := []string{
		"",
		"no placeholders at all",
		"{a}",
		"{a}{b}",
		"{a} and {a}",
		"literal {{braces}} and {x}",
		"}}{{",
		"trailing {x} ",
		"ünïcode {x} ✓",
	}
	for _, pattern := range patterns {
		segments, err := Tokenize(pattern)
		if err != nil {
			t.Fatalf("tokenize %q: %v", pattern, err)
		}
		if got := Join(segments); got != pattern {
			t.Fatalf("round trip mismatch\nwant: %q\n got: %q", pattern, got)
		}
	}
}

func TestTokenize_Segments(t *testing.T) {
	segments, err := Tokenize("{actor} discards {card_types} {{x}}")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []Segment{
		Placeholder("actor"),
		Literal(" discards "),
		Placeholder("card_types"),
		Literal(" {x}"),
	}
	if diff := cmp.Diff(want, segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_Malformed(t *testing.T) {
	for _, pattern := range []string{"{actor", "actor}", "{}", "{ }", "{a{b}}"} {
		if _, err := Tokenize(pattern); !errors.Is(err, ErrMalformedTemplate) {
			t.Fatalf("Tokenize(%q): expected ErrMalformedTemplate, got %v", pattern, err)
		}
	}
}

func TestTokenize_AcceptsUnknownNames(t *testing.T) {
	segments, err := Tokenize("{not_registered}")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if diff := cmp.Diff([]string{"not_registered"}, Placeholders(segments)); diff != "" {
		t.Fatalf("placeholders mismatch (-want +got):\n%s", diff)
	}
}
