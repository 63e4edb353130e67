package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/form"
	"github.com/goliatone/go-tagger/pkg/journal"
	"github.com/goliatone/go-tagger/pkg/submission"
	"github.com/goliatone/go-tagger/pkg/testsupport"
)

// scriptedPrompter answers menus by entry label, in script order, and
// records every menu and status line it is shown.
type scriptedPrompter struct {
	names   []string
	picks   []string
	lines   []string
	menus   []Menu
	compact []string
}

func (p *scriptedPrompter) AskName(context.Context, string) (string, error) {
	if len(p.names) == 0 {
		return "", errors.New("no name scripted")
	}
	name := p.names[0]
	p.names = p.names[1:]
	return name, nil
}

func (p *scriptedPrompter) Pick(_ context.Context, menu Menu) (int, error) {
	p.menus = append(p.menus, menu)
	if menu.Compact {
		p.compact = append(p.compact, menu.Title)
	}
	if len(p.picks) == 0 {
		return -1, ErrAborted
	}
	want := p.picks[0]
	p.picks = p.picks[1:]
	for i, entry := range menu.Entries {
		if entry == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("entry %q not offered in %v", want, menu.Entries)
}

func (p *scriptedPrompter) Notify(_ context.Context, line string) error {
	p.lines = append(p.lines, line)
	return nil
}

func (p *scriptedPrompter) lastMenu() []string {
	return p.menus[len(p.menus)-1].Entries
}

func newSession(t *testing.T, prompt Prompter, opts ...Option) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags.jsonl")
	log, err := journal.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	catalog := cards.NewCatalog([]cards.Card{{ID: "sv1-1", ImageURL: "https://images.example/1.png"}}, nil)
	opts = append([]Option{
		WithPrompter(prompt),
		WithFormOptions(form.WithIDSource(testsupport.SequentialIDs())),
	}, opts...)
	session, err := NewSession(submission.NewSubmitter(log, catalog), catalog, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session, path
}

func TestSession_TagAndSubmit(t *testing.T) {
	prompt := &scriptedPrompter{picks: []string{
		"Edit 1: (no action chosen)",
		"Discard",
		"You", "Pokemon", "Single", "Hand",
		menuSubmit,
		menuQuit,
	}}
	session, path := newSession(t, prompt, WithUser("red"))

	written, err := session.Run(testsupport.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if written != 1 {
		t.Fatalf("expected one record written, got %d", written)
	}

	records, err := journal.ReadAll[submission.Record](path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	want := submission.Data{ID: "sv1-1", Tags: []submission.Tag{{
		Verb: "discard",
		Options: map[string]string{
			"actor-1": "you", "card_types-1": "pokemon", "multiple-1": "single", "location-1": "hand",
		},
	}}}
	if diff := cmp.Diff(want, records[0].Data); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if records[0].User != "red" {
		t.Fatalf("expected user red, got %q", records[0].User)
	}

	var saved bool
	for _, line := range prompt.lines {
		if strings.Contains(line, "Successfully saved data") {
			saved = true
		}
	}
	if !saved {
		t.Fatalf("expected success message, got %v", prompt.lines)
	}
	if diff := cmp.Diff([]string{"Multiple (1)"}, prompt.compact); diff != "" {
		t.Fatalf("compact menus mismatch (-want +got):\n%s", diff)
	}
	last := prompt.lastMenu()
	if last[0] != "Edit 1: (no action chosen)" {
		t.Fatalf("expected form reset after submit, menu was %v", last)
	}
}

func TestSession_SubmitHiddenUntilComplete(t *testing.T) {
	prompt := &scriptedPrompter{picks: []string{menuAdd, menuQuit}}
	session, _ := newSession(t, prompt, WithUser("red"))

	if _, err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, menu := range prompt.menus {
		for _, entry := range menu.Entries {
			if entry == menuSubmit {
				t.Fatalf("submit offered for incomplete form: %v", menu.Entries)
			}
		}
	}
	if got := prompt.menus[1].Entries; got[0] != "Edit 1: (no action chosen)" || got[1] != "Edit 2: (no action chosen)" {
		t.Fatalf("expected two rows after add, got %v", got)
	}
}

func TestSession_RemoveRowAndAbort(t *testing.T) {
	prompt := &scriptedPrompter{
		names: []string{"misty"},
		picks: []string{menuRemove, "Edit 1: (no action chosen)"},
	}
	session, _ := newSession(t, prompt)

	written, err := session.Run(testsupport.Context())
	if err != nil {
		t.Fatalf("abort should end the session cleanly: %v", err)
	}
	if written != 0 {
		t.Fatalf("expected nothing written, got %d", written)
	}
	last := prompt.lastMenu()
	if diff := cmp.Diff([]string{menuAdd, menuSubmit, menuNewCard, menuQuit}, last); diff != "" {
		t.Fatalf("menu after removing the only row mismatch (-want +got):\n%s", diff)
	}
}

func TestSentence(t *testing.T) {
	session, _ := newSession(t, &scriptedPrompter{})
	f := form.New(session.registry, form.WithIDSource(testsupport.SequentialIDs()))
	row := f.Rows()[0]
	if _, err := f.SelectVerb(row.ID, "search"); err != nil {
		t.Fatalf("select verb: %v", err)
	}
	row, _ = f.Row(row.ID)
	f.SetFieldValue(row.Fields[0].ID, "you")
	row, _ = f.Row(row.ID)

	want := "you searches [location] for [multiple] [card_types] and adds them to [location]"
	if got := Sentence(row); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
