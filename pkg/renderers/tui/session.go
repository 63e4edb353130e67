package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/form"
	"github.com/goliatone/go-tagger/pkg/registry"
	"github.com/goliatone/go-tagger/pkg/rows"
	"github.com/goliatone/go-tagger/pkg/submission"
)

const (
	menuAdd     = "Add action"
	menuRemove  = "Remove action"
	menuSubmit  = "Submit"
	menuNewCard = "New card"
	menuQuit    = "Quit"
)

// Session runs the tagging loop in a terminal: show a card, edit rows until
// the form is complete, submit, repeat.
type Session struct {
	prompt    Prompter
	registry  *registry.Registry
	submitter *submission.Submitter
	cards     cards.Provider
	user      string
	theme     Theme
	logger    *zap.Logger
	formOpts  []form.Option
}

// NewSession wires a session to its submitter and card source. The survey
// prompter is used unless WithPrompter overrides it.
func NewSession(submitter *submission.Submitter, provider cards.Provider, options ...Option) (*Session, error) {
	if submitter == nil {
		return nil, errors.New("tui: submitter is required")
	}
	if provider == nil {
		return nil, errors.New("tui: card provider is required")
	}
	s := &Session{
		registry:  registry.Default(),
		submitter: submitter,
		cards:     provider,
		theme:     DefaultTheme(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.prompt == nil {
		s.prompt = NewSurveyPrompter(nil)
	}
	return s, nil
}

// Run drives the loop until the user quits or aborts. It returns the number
// of records written.
func (s *Session) Run(ctx context.Context) (int, error) {
	if strings.TrimSpace(s.user) == "" {
		user, err := s.prompt.AskName(ctx, submission.AnonymousUser)
		if err != nil {
			return 0, s.finish(err)
		}
		s.user = user
	}
	card, err := s.cards.DrawRandomCard()
	if err != nil {
		return 0, err
	}
	f := form.New(s.registry, append([]form.Option{form.WithLogger(s.logger)}, s.formOpts...)...)

	written := 0
	for {
		if err := s.showCard(ctx, card, f); err != nil {
			return written, s.finish(err)
		}
		choice, err := s.menu(ctx, f, card)
		if err != nil {
			return written, s.finish(err)
		}

		switch choice {
		case menuQuit:
			return written, nil
		case menuAdd:
			f.AddRow()
		case menuRemove:
			err = s.removeRow(ctx, f)
		case menuNewCard:
			f.Reset()
			card, err = s.nextCard(ctx, card)
		case menuSubmit:
			var saved bool
			card, saved, err = s.submit(ctx, f, card)
			if saved {
				written++
			}
		default:
			err = s.editRow(ctx, f, choice)
		}
		if err != nil {
			return written, s.finish(err)
		}
	}
}

func (s *Session) finish(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

func (s *Session) showCard(ctx context.Context, card cards.Card, f *form.Form) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s card %s %s", s.theme.InfoPrefix, card.ID, card.ImageURL)
	for i, row := range f.Rows() {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, Sentence(row))
	}
	return s.prompt.Notify(ctx, b.String())
}

func (s *Session) menu(ctx context.Context, f *form.Form, card cards.Card) (string, error) {
	var options []string
	for i, row := range f.Rows() {
		options = append(options, rowLabel(i, row))
	}
	options = append(options, menuAdd)
	if f.Len() > 0 {
		options = append(options, menuRemove)
	}
	if submission.Ready(f, card) {
		options = append(options, menuSubmit)
	}
	options = append(options, menuNewCard, menuQuit)

	idx, err := s.prompt.Pick(ctx, Menu{Title: "What next?", Entries: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: selection %d out of range", idx)
	}
	return options[idx], nil
}

func (s *Session) editRow(ctx context.Context, f *form.Form, label string) error {
	var target uuid.UUID
	for i, row := range f.Rows() {
		if rowLabel(i, row) == label {
			target = row.ID
			break
		}
	}
	row, ok := f.Row(target)
	if !ok {
		return nil
	}

	verbs := s.registry.VerbOptions()
	labels := make([]string, 0, len(verbs))
	current := 0
	for i, verb := range verbs {
		labels = append(labels, verb.Label)
		if verb.Value == row.Verb {
			current = i
		}
	}
	idx, err := s.prompt.Pick(ctx, Menu{Title: "Action", Entries: labels, Current: current})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(verbs) {
		return fmt.Errorf("tui: selection %d out of range", idx)
	}
	if verbs[idx].Value != row.Verb {
		if _, err := f.SelectVerb(target, verbs[idx].Value); err != nil {
			return err
		}
	}

	row, _ = f.Row(target)
	for _, element := range row.Elements {
		if element.Kind != rows.ElementInput {
			continue
		}
		if err := s.editField(ctx, f, element); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) editField(ctx context.Context, f *form.Form, element rows.Element) error {
	options := element.Placeholder.Options
	labels := make([]string, 0, len(options))
	defaultIdx := 0
	current, _ := f.Field(element.Field.String())
	for i, option := range options {
		labels = append(labels, option.Label)
		if option.Value == current.Value {
			defaultIdx = i
		}
	}
	message := fmt.Sprintf("%s (%d)", registry.Humanize(element.Field.Placeholder), element.Field.Occurrence)
	idx, err := s.prompt.Pick(ctx, Menu{
		Title:   message,
		Entries: labels,
		Current: defaultIdx,
		Compact: element.Placeholder.Widget == registry.WidgetRadio,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: selection %d out of range", idx)
	}
	f.SetFieldValue(element.Field, options[idx].Value)
	return nil
}

func (s *Session) removeRow(ctx context.Context, f *form.Form) error {
	list := f.Rows()
	labels := make([]string, 0, len(list))
	for i, row := range list {
		labels = append(labels, rowLabel(i, row))
	}
	idx, err := s.prompt.Pick(ctx, Menu{Title: "Remove which action?", Entries: labels})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(list) {
		return fmt.Errorf("tui: selection %d out of range", idx)
	}
	f.RemoveRow(list[idx].ID)
	return nil
}

func (s *Session) submit(ctx context.Context, f *form.Form, card cards.Card) (cards.Card, bool, error) {
	result, err := s.submitter.Submit(ctx, f, card, s.user)
	var perr *submission.PersistenceError
	switch {
	case errors.Is(err, cards.ErrCardUnavailable):
		return card, false, s.prompt.Notify(ctx, s.theme.ErrorPrefix+" no card to tag; pick New card")
	case errors.Is(err, submission.ErrIncompleteForm):
		return card, false, s.prompt.Notify(ctx, s.theme.ErrorPrefix+" every action needs a verb and every field a value")
	case errors.As(err, &perr):
		s.logger.Error("submission failed", zap.Error(err))
		return card, false, s.prompt.Notify(ctx, s.theme.ErrorPrefix+" could not save data: "+perr.Err.Error())
	case err != nil:
		return card, false, err
	}

	if err := s.prompt.Notify(ctx, s.theme.SuccessPrefix+" Successfully saved data"); err != nil {
		return card, true, err
	}
	if result.CardErr != nil {
		return result.Card, true, s.prompt.Notify(ctx, s.theme.ErrorPrefix+" "+result.CardErr.Error())
	}
	return result.Card, true, nil
}

func (s *Session) nextCard(ctx context.Context, current cards.Card) (cards.Card, error) {
	next, err := s.cards.DrawRandomCard()
	if err != nil {
		return current, s.prompt.Notify(ctx, s.theme.ErrorPrefix+" "+err.Error())
	}
	return next, nil
}

func rowLabel(i int, row form.Row) string {
	return fmt.Sprintf("Edit %d: %s", i+1, Sentence(row))
}

// Sentence renders a row as plain text. Fields show their value, or the
// placeholder name in brackets while empty.
func Sentence(row form.Row) string {
	if row.Empty() {
		return "(no action chosen)"
	}
	if len(row.Elements) == 0 {
		return registry.Humanize(row.Verb)
	}
	values := make(map[string]string, len(row.Fields))
	for _, field := range row.Fields {
		values[field.Name] = field.Value
	}
	var b strings.Builder
	for _, element := range row.Elements {
		if element.Kind == rows.ElementText {
			b.WriteString(element.Text)
			continue
		}
		if value := values[element.Field.String()]; value != "" {
			b.WriteString(value)
		} else {
			b.WriteString("[" + element.Field.Placeholder + "]")
		}
	}
	return strings.TrimSpace(b.String())
}
