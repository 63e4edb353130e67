package form

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/rows"
)

// Row is one user-authored action entry. A row with an empty Verb is in the
// Empty state and carries no fields.
type Row struct {
	ID       uuid.UUID      `json:"id"`
	Verb     string         `json:"verb,omitempty"`
	Elements []rows.Element `json:"-"`
	Fields   []Field        `json:"fields"`
}

// Field is the current value of one rendered input.
type Field struct {
	ID    rows.FieldID `json:"id"`
	Name  string       `json:"name"`
	Value string       `json:"value"`
}

// Empty reports whether the row still waits for a verb.
func (r Row) Empty() bool { return r.Verb == "" }

type fieldRef struct {
	row   uuid.UUID
	index int
}

// Form holds the ordered row list of one tagging session. It is not safe for
// concurrent use; callers serialize events per session.
type Form struct {
	templates rows.Templates
	newID     func() uuid.UUID
	logger    *zap.Logger

	rows   []*Row
	byRow  map[uuid.UUID]*Row
	fields map[string]fieldRef
}

// Option configures a Form.
type Option func(*Form)

// WithIDSource overrides the row id generator.
func WithIDSource(fn func() uuid.UUID) Option {
	return func(f *Form) {
		if fn != nil {
			f.newID = fn
		}
	}
}

// WithLogger attaches a logger for debug tracing of transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New returns a form holding a single Empty row.
func New(templates rows.Templates, options ...Option) *Form {
	f := &Form{
		templates: templates,
		newID:     uuid.New,
		logger:    zap.NewNop(),
		byRow:     make(map[uuid.UUID]*Row),
		fields:    make(map[string]fieldRef),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	f.appendRow()
	return f
}

// AddRow appends a new Empty row with a fresh id.
func (f *Form) AddRow() Delta {
	row := f.appendRow()
	f.logger.Debug("row added", zap.String("row", row.ID.String()))
	return Delta{Op: OpRowAdded, Row: row.ID, Index: len(f.rows) - 1}
}

// RemoveRow removes the row with the given id. An unknown id is a no-op and
// reports false; stale removals after a double click land here.
func (f *Form) RemoveRow(id uuid.UUID) (Delta, bool) {
	idx := f.indexOf(id)
	if idx < 0 {
		return Delta{}, false
	}
	row := f.rows[idx]
	f.dropFields(row)
	delete(f.byRow, id)
	f.rows = append(f.rows[:idx], f.rows[idx+1:]...)
	f.logger.Debug("row removed", zap.String("row", id.String()), zap.Int("index", idx))
	return Delta{Op: OpRowRemoved, Row: id, Index: idx}, true
}

// SelectVerb sets the row's verb and replaces its fields with a fresh render
// of the verb's template. An empty verb clears the fields without rendering.
// An unknown row id is a benign no-op. Registry failures leave the row as it
// was.
func (f *Form) SelectVerb(id uuid.UUID, verb string) (Delta, error) {
	idx := f.indexOf(id)
	if idx < 0 {
		return Delta{}, nil
	}
	row := f.rows[idx]

	var elements []rows.Element
	if verb != "" {
		rendered, err := rows.RenderFields(f.templates, verb, id)
		if err != nil {
			return Delta{}, fmt.Errorf("form: select verb for row %s: %w", id, err)
		}
		elements = rendered
	}

	f.dropFields(row)
	row.Verb = verb
	row.Elements = elements
	row.Fields = nil
	for _, fieldID := range rows.FieldIDs(elements) {
		name := fieldID.String()
		f.fields[name] = fieldRef{row: id, index: len(row.Fields)}
		row.Fields = append(row.Fields, Field{ID: fieldID, Name: name})
	}

	f.logger.Debug("verb selected",
		zap.String("row", id.String()),
		zap.String("verb", verb),
		zap.Int("fields", len(row.Fields)))
	return Delta{Op: OpFieldsReplaced, Row: id, Index: idx}, nil
}

// SetFieldValue updates one field's value. It reports false when the field
// is not currently rendered.
func (f *Form) SetFieldValue(id rows.FieldID, value string) bool {
	return f.SetFieldValueByName(id.String(), value)
}

// SetFieldValueByName updates a field addressed by its input name.
func (f *Form) SetFieldValueByName(name, value string) bool {
	ref, ok := f.fields[name]
	if !ok {
		return false
	}
	f.byRow[ref.row].Fields[ref.index].Value = value
	return true
}

// Field looks up a rendered field by its input name.
func (f *Form) Field(name string) (Field, bool) {
	ref, ok := f.fields[name]
	if !ok {
		return Field{}, false
	}
	return f.byRow[ref.row].Fields[ref.index], true
}

// Row returns a copy of the row with the given id.
func (f *Form) Row(id uuid.UUID) (Row, bool) {
	row, ok := f.byRow[id]
	if !ok {
		return Row{}, false
	}
	return copyRow(row), true
}

// Rows returns a copy of the current row list in display order.
func (f *Form) Rows() []Row {
	out := make([]Row, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, copyRow(row))
	}
	return out
}

// Len returns the number of rows.
func (f *Form) Len() int { return len(f.rows) }

// SubmitEnabled reports whether the current rows can be submitted.
func (f *Form) SubmitEnabled() bool {
	return SubmitEnabled(f.Rows())
}

// Reset discards every row and leaves a single Empty row with a newly
// generated id.
func (f *Form) Reset() []Delta {
	deltas := make([]Delta, 0, len(f.rows)+1)
	for len(f.rows) > 0 {
		delta, _ := f.RemoveRow(f.rows[len(f.rows)-1].ID)
		deltas = append(deltas, delta)
	}
	deltas = append(deltas, f.AddRow())
	f.logger.Debug("form reset")
	return deltas
}

// SubmitEnabled is true iff every row has a verb and every rendered field has
// a value. Rows without a verb contribute no fields.
func SubmitEnabled(rows []Row) bool {
	for _, row := range rows {
		if row.Verb == "" {
			return false
		}
		for _, field := range row.Fields {
			if field.Value == "" {
				return false
			}
		}
	}
	return true
}

func (f *Form) appendRow() *Row {
	row := &Row{ID: f.newID()}
	f.rows = append(f.rows, row)
	f.byRow[row.ID] = row
	return row
}

func (f *Form) dropFields(row *Row) {
	for _, field := range row.Fields {
		delete(f.fields, field.Name)
	}
}

func (f *Form) indexOf(id uuid.UUID) int {
	if _, ok := f.byRow[id]; !ok {
		return -1
	}
	for idx, row := range f.rows {
		if row.ID == id {
			return idx
		}
	}
	return -1
}

func copyRow(row *Row) Row {
	out := *row
	out.Fields = append([]Field(nil), row.Fields...)
	out.Elements = append([]rows.Element(nil), row.Elements...)
	return out
}
