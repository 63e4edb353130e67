package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/form"
)

// TimestampLayout is local wall-clock time with millisecond precision and no
// zone offset.
const TimestampLayout = "2006-01-02T15:04:05.000"

// AnonymousUser is recorded when the request carries no identity.
const AnonymousUser = "anonymous"

// ErrIncompleteForm is returned when a submit is attempted while some row
// lacks a verb or some field lacks a value.
var ErrIncompleteForm = errors.New("submission: form is incomplete")

// PersistenceError reports that a record could not be written. The form is
// left untouched so the user can retry.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	if e == nil || e.Err == nil {
		return "submission: persist record"
	}
	return "submission: persist record: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Appender writes one record to durable storage.
type Appender interface {
	Append(ctx context.Context, v any) error
}

// Result describes a successful submission.
type Result struct {
	Record Record
	// Card is the card to show next. When CardErr is set it is the card that
	// was just tagged.
	Card    cards.Card
	CardErr error
	Deltas  []form.Delta
}

// Options configures a Submitter.
type Options struct {
	Now    func() time.Time
	Logger *zap.Logger
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// Submitter turns a complete form into a log record.
type Submitter struct {
	appender Appender
	cards    cards.Provider
	now      func() time.Time
	logger   *zap.Logger
}

// NewSubmitter wires a submitter to its log and card source.
func NewSubmitter(appender Appender, provider cards.Provider, fns ...OptionFn) *Submitter {
	opts := Options{Now: time.Now, Logger: zap.NewNop()}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	return &Submitter{appender: appender, cards: provider, now: opts.Now, logger: opts.Logger}
}

// BuildRecord assembles the record for card without writing it.
func (s *Submitter) BuildRecord(f *form.Form, card cards.Card, user string) Record {
	user = strings.TrimSpace(user)
	if user == "" {
		user = AnonymousUser
	}
	return Record{
		Timestamp: s.now().Format(TimestampLayout),
		User:      user,
		Data:      Data{ID: card.ID, Tags: Assemble(f.Rows())},
	}
}

// Ready reports whether f can be submitted for card: the form is complete
// and there is a card to attach it to.
func Ready(f *form.Form, card cards.Card) bool {
	return card.ID != "" && f.SubmitEnabled()
}

// Submit writes the form as one record for card, then resets the form and
// draws the next card. Nothing changes when there is no card, the form is
// incomplete or the write fails. A failed draw after a successful write is
// reported through Result.CardErr; the record stays written and the form is
// still reset.
func (s *Submitter) Submit(ctx context.Context, f *form.Form, card cards.Card, user string) (Result, error) {
	if card.ID == "" {
		return Result{}, fmt.Errorf("%w: no card to tag", cards.ErrCardUnavailable)
	}
	if !f.SubmitEnabled() {
		return Result{}, ErrIncompleteForm
	}

	record := s.BuildRecord(f, card, user)
	if err := s.appender.Append(ctx, record); err != nil {
		s.logger.Error("submission not persisted", zap.String("card", card.ID), zap.Error(err))
		return Result{}, &PersistenceError{Err: err}
	}
	s.logger.Info("submission recorded",
		zap.String("card", card.ID),
		zap.String("user", record.User),
		zap.Int("tags", len(record.Data.Tags)))

	result := Result{Record: record, Card: card, Deltas: f.Reset()}
	next, err := s.drawCard()
	if err != nil {
		s.logger.Warn("next card unavailable", zap.Error(err))
		result.CardErr = err
		return result, nil
	}
	result.Card = next
	return result, nil
}

func (s *Submitter) drawCard() (cards.Card, error) {
	if s.cards == nil {
		return cards.Card{}, fmt.Errorf("%w: no provider configured", cards.ErrCardUnavailable)
	}
	return s.cards.DrawRandomCard()
}
