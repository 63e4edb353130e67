package form

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-tagger/pkg/registry"
)

func sequentialIDs() func() uuid.UUID {
	n := 0
	return func() uuid.UUID {
		n++
		return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
	}
}

func newTestForm(t *testing.T) *Form {
	t.Helper()
	return New(registry.Default(), WithIDSource(sequentialIDs()))
}

func rowIDs(rows []Row) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func fillAll(f *Form, value string) {
	for _, row := range f.Rows() {
		for _, field := range row.Fields {
			f.SetFieldValue(field.ID, value)
		}
	}
}

func TestNew_StartsWithOneEmptyRow(t *testing.T) {
	f := newTestForm(t)
	rows := f.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if !rows[0].Empty() || len(rows[0].Fields) != 0 {
		t.Fatalf("expected empty row, got %+v", rows[0])
	}
	if f.SubmitEnabled() {
		t.Fatalf("empty row must block submission")
	}
}

func TestAddRow_AppendsInOrder(t *testing.T) {
	f := newTestForm(t)
	first := f.Rows()[0].ID

	delta := f.AddRow()
	if delta.Op != OpRowAdded || delta.Index != 1 {
		t.Fatalf("unexpected delta: %+v", delta)
	}
	f.AddRow()

	ids := rowIDs(f.Rows())
	if len(ids) != 3 || ids[0] != first || ids[1] != delta.Row {
		t.Fatalf("unexpected row order: %v", ids)
	}
}

func TestRemoveRow_UnknownIDIsNoop(t *testing.T) {
	f := newTestForm(t)
	f.AddRow()
	before := rowIDs(f.Rows())

	if _, removed := f.RemoveRow(uuid.New()); removed {
		t.Fatalf("expected no removal for unknown id")
	}
	if diff := cmp.Diff(before, rowIDs(f.Rows())); diff != "" {
		t.Fatalf("row list changed (-before +after):\n%s", diff)
	}
}

func TestRemoveRow_ByIDNotPosition(t *testing.T) {
	f := newTestForm(t)
	f.AddRow()
	f.AddRow()
	ids := rowIDs(f.Rows())

	delta, removed := f.RemoveRow(ids[1])
	if !removed || delta.Op != OpRowRemoved || delta.Index != 1 {
		t.Fatalf("unexpected removal: %+v removed=%v", delta, removed)
	}
	// A stale second click for the same row must not remove its neighbour.
	if _, removed := f.RemoveRow(ids[1]); removed {
		t.Fatalf("expected stale removal to be a no-op")
	}
	if diff := cmp.Diff([]uuid.UUID{ids[0], ids[2]}, rowIDs(f.Rows())); diff != "" {
		t.Fatalf("row list mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectVerb_ReplacesFields(t *testing.T) {
	f := newTestForm(t)
	id := f.Rows()[0].ID

	delta, err := f.SelectVerb(id, "search")
	if err != nil {
		t.Fatalf("select verb: %v", err)
	}
	if delta.Op != OpFieldsReplaced || delta.Row != id {
		t.Fatalf("unexpected delta: %+v", delta)
	}
	row, _ := f.Row(id)
	if len(row.Fields) != 5 {
		t.Fatalf("expected 5 search fields, got %d", len(row.Fields))
	}
	searchField := row.Fields[0].Name
	f.SetFieldValueByName(searchField, "you")

	if _, err := f.SelectVerb(id, "discard"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	row, _ = f.Row(id)
	if row.Verb != "discard" || len(row.Fields) != 4 {
		t.Fatalf("unexpected discard row: verb=%q fields=%d", row.Verb, len(row.Fields))
	}
	for _, field := range row.Fields {
		if field.Value != "" {
			t.Fatalf("expected fresh fields after verb change, got %+v", field)
		}
	}
	if _, ok := f.Field(searchField); ok {
		t.Fatalf("stale field from previous verb still indexed")
	}
	if f.SetFieldValueByName(searchField, "you") {
		t.Fatalf("expected update of stale field to report false")
	}
}

func TestSelectVerb_EmptyVerbClearsFields(t *testing.T) {
	f := newTestForm(t)
	id := f.Rows()[0].ID
	if _, err := f.SelectVerb(id, "search"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	if _, err := f.SelectVerb(id, ""); err != nil {
		t.Fatalf("clear verb: %v", err)
	}
	row, _ := f.Row(id)
	if !row.Empty() || len(row.Fields) != 0 || len(row.Elements) != 0 {
		t.Fatalf("expected cleared row, got %+v", row)
	}
}

func TestSelectVerb_UnknownVerbKeepsRow(t *testing.T) {
	f := newTestForm(t)
	id := f.Rows()[0].ID
	if _, err := f.SelectVerb(id, "search"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	if _, err := f.SelectVerb(id, "attach"); !errors.Is(err, registry.ErrUnknownVerb) {
		t.Fatalf("expected ErrUnknownVerb, got %v", err)
	}
	row, _ := f.Row(id)
	if row.Verb != "search" || len(row.Fields) != 5 {
		t.Fatalf("row mutated by failed verb change: %+v", row)
	}
}

func TestSelectVerb_UnknownRowIsNoop(t *testing.T) {
	f := newTestForm(t)
	delta, err := f.SelectVerb(uuid.New(), "search")
	if err != nil || delta != (Delta{}) {
		t.Fatalf("expected silent no-op, got %+v %v", delta, err)
	}
}

func TestSelectVerb_KeepsRowOrder(t *testing.T) {
	f := newTestForm(t)
	f.AddRow()
	f.AddRow()
	before := rowIDs(f.Rows())
	if _, err := f.SelectVerb(before[1], "discard"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	if diff := cmp.Diff(before, rowIDs(f.Rows())); diff != "" {
		t.Fatalf("verb change reordered rows (-before +after):\n%s", diff)
	}
}

func TestSubmitEnabled(t *testing.T) {
	f := newTestForm(t)
	id := f.Rows()[0].ID
	if _, err := f.SelectVerb(id, "search"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	if f.SubmitEnabled() {
		t.Fatalf("unfilled fields must block submission")
	}

	fillAll(f, "x")
	if !f.SubmitEnabled() {
		t.Fatalf("expected submit enabled with all fields filled")
	}

	row, _ := f.Row(id)
	f.SetFieldValue(row.Fields[2].ID, "")
	if f.SubmitEnabled() {
		t.Fatalf("cleared field must block submission")
	}
	f.SetFieldValue(row.Fields[2].ID, "single")

	f.AddRow()
	if f.SubmitEnabled() {
		t.Fatalf("row without verb must block submission")
	}
}

func TestSubmitEnabled_LiteralOnlyVerb(t *testing.T) {
	reg := registry.MustNew([]registry.Verb{{Name: "pass", Pattern: "you pass"}}, nil)
	f := New(reg)
	if _, err := f.SelectVerb(f.Rows()[0].ID, "pass"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	if !f.SubmitEnabled() {
		t.Fatalf("verb with no placeholders should allow submission")
	}
}

func TestReset_LeavesOneFreshRow(t *testing.T) {
	f := newTestForm(t)
	old := f.Rows()[0].ID
	if _, err := f.SelectVerb(old, "search"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	f.AddRow()

	deltas := f.Reset()
	rows := f.Rows()
	if len(rows) != 1 || !rows[0].Empty() {
		t.Fatalf("expected one empty row, got %+v", rows)
	}
	if rows[0].ID == old || rows[0].ID == uuid.Nil {
		t.Fatalf("expected a newly generated row id, got %s", rows[0].ID)
	}
	last := deltas[len(deltas)-1]
	if last.Op != OpRowAdded || last.Row != rows[0].ID {
		t.Fatalf("unexpected final delta: %+v", last)
	}
	if len(deltas) != 3 {
		t.Fatalf("expected two removals and one addition, got %+v", deltas)
	}
}

func TestRows_ReturnsCopies(t *testing.T) {
	f := newTestForm(t)
	id := f.Rows()[0].ID
	if _, err := f.SelectVerb(id, "discard"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	rows := f.Rows()
	rows[0].Fields[0].Value = "mutated"

	row, _ := f.Row(id)
	if row.Fields[0].Value != "" {
		t.Fatalf("form state leaked through Rows copy")
	}
}
