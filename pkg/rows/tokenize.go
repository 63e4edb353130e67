package rows

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTemplate is returned when a pattern has unbalanced or empty
// braces.
var ErrMalformedTemplate = errors.New("rows: malformed template")

// SegmentKind distinguishes literal text from placeholder tokens.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentPlaceholder
)

// Segment is one piece of a tokenized pattern. Literal segments carry
// unescaped text; placeholder segments carry the placeholder name.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Literal builds a literal segment.
func Literal(text string) Segment { return Segment{Kind: SegmentLiteral, Text: text} }

// Placeholder builds a placeholder segment.
func Placeholder(name string) Segment { return Segment{Kind: SegmentPlaceholder, Text: name} }

// Tokenize scans pattern left to right, splitting it on {name} tokens.
// Doubled braces ({{ and }}) are literal braces. Placeholder names are not
// checked against any registry here.
func Tokenize(pattern string) ([]Segment, error) {
	var (
		segments []Segment
		literal  strings.Builder
	)
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		segments = append(segments, Literal(literal.String()))
		literal.Reset()
	}

	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch ch {
		case '{':
			if i+1 < len(pattern) && pattern[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(pattern[i+1:], "{}")
			if end < 0 || pattern[i+1+end] != '}' {
				return nil, fmt.Errorf("%w: unterminated placeholder at offset %d", ErrMalformedTemplate, i)
			}
			name := pattern[i+1 : i+1+end]
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("%w: empty placeholder at offset %d", ErrMalformedTemplate, i)
			}
			flush()
			segments = append(segments, Placeholder(name))
			i += end + 1
		case '}':
			if i+1 < len(pattern) && pattern[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: unmatched '}' at offset %d", ErrMalformedTemplate, i)
		default:
			literal.WriteByte(ch)
		}
	}
	flush()
	return segments, nil
}

// Join reassembles segments into a pattern, re-escaping literal braces, so
// Join(Tokenize(p)) == p for every well-formed p.
func Join(segments []Segment) string {
	var b strings.Builder
	escaper := strings.NewReplacer("{", "{{", "}", "}}")
	for _, segment := range segments {
		switch segment.Kind {
		case SegmentPlaceholder:
			b.WriteByte('{')
			b.WriteString(segment.Text)
			b.WriteByte('}')
		default:
			b.WriteString(escaper.Replace(segment.Text))
		}
	}
	return b.String()
}

// Placeholders returns placeholder names in order of appearance, repeats
// included.
func Placeholders(segments []Segment) []string {
	var out []string
	for _, segment := range segments {
		if segment.Kind == SegmentPlaceholder {
			out = append(out, segment.Text)
		}
	}
	return out
}
