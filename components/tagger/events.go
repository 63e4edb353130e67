package tagger

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/form"
	"github.com/goliatone/go-tagger/pkg/registry"
	"github.com/goliatone/go-tagger/pkg/renderers/vanilla"
	"github.com/goliatone/go-tagger/pkg/rows"
	"github.com/goliatone/go-tagger/pkg/submission"
)

const (
	msgSaved        = "Successfully saved data"
	msgIncomplete   = "Pick a verb and a value for every field before submitting"
	msgSaveFailed   = "Could not save data, please try again"
	msgNoNextCard   = "Saved, but no new card is available; keeping the current one"
	msgNoCardKept   = "No new card is available; keeping the current one"
	msgNoCard       = "No card is available to tag; try New card"
	msgUnknownVerb  = "Unknown verb"
	msgUnknownField = "That field is no longer on the form"
	msgBadValue     = "That value is not one of the allowed options"
)

// The event methods below mutate one session. Callers hold the session lock.
// Failures set sess.alert and return a StatusError carrying the HTTP status.

func (h *handler) addRow(sess *session) []form.Delta {
	return []form.Delta{sess.form.AddRow()}
}

func (h *handler) removeRow(sess *session, id uuid.UUID) []form.Delta {
	delta, ok := sess.form.RemoveRow(id)
	if !ok {
		h.logger.Debug("remove of unknown row ignored", zap.String("row", id.String()))
		return nil
	}
	return []form.Delta{delta}
}

func (h *handler) selectVerb(sess *session, id uuid.UUID, verb string) ([]form.Delta, error) {
	if current, ok := sess.form.Row(id); ok && current.Verb == verb {
		return nil, nil
	}
	delta, err := sess.form.SelectVerb(id, verb)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownVerb) {
			sess.alert = &vanilla.Alert{Level: vanilla.AlertWarning, Message: msgUnknownVerb}
			return nil, StatusError{Code: http.StatusBadRequest, Err: err}
		}
		h.logger.Error("verb template failed to render", zap.String("verb", verb), zap.Error(err))
		sess.alert = &vanilla.Alert{Level: vanilla.AlertDanger, Message: "Internal error: " + err.Error()}
		return nil, StatusError{Code: http.StatusInternalServerError, Err: err}
	}
	if delta.Op == "" {
		return nil, nil
	}
	return []form.Delta{delta}, nil
}

func (h *handler) setField(sess *session, name, value string) error {
	field, ok := sess.form.Field(name)
	if !ok {
		sess.alert = &vanilla.Alert{Level: vanilla.AlertWarning, Message: msgUnknownField}
		return statusErrorf(http.StatusNotFound, "tagger: unknown field %q", name)
	}
	if value != "" {
		spec, ok := placeholderFor(sess.form, field)
		if !ok || !spec.Allows(value) {
			sess.alert = &vanilla.Alert{Level: vanilla.AlertWarning, Message: msgBadValue}
			return statusErrorf(http.StatusBadRequest, "tagger: value %q not allowed for %q", value, name)
		}
	}
	sess.form.SetFieldValueByName(name, value)
	return nil
}

func (h *handler) submit(ctx context.Context, sess *session, user string) ([]form.Delta, error) {
	result, err := h.opts.Submitter.Submit(ctx, sess.form, sess.card, user)
	var persistErr *submission.PersistenceError
	switch {
	case errors.Is(err, cards.ErrCardUnavailable):
		sess.alert = &vanilla.Alert{Level: vanilla.AlertWarning, Message: msgNoCard}
		return nil, StatusError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, submission.ErrIncompleteForm):
		sess.alert = &vanilla.Alert{Level: vanilla.AlertWarning, Message: msgIncomplete}
		return nil, StatusError{Code: http.StatusUnprocessableEntity, Err: err}
	case errors.As(err, &persistErr):
		sess.alert = &vanilla.Alert{Level: vanilla.AlertDanger, Message: msgSaveFailed}
		return nil, StatusError{Code: http.StatusInternalServerError, Err: err}
	case err != nil:
		sess.alert = &vanilla.Alert{Level: vanilla.AlertDanger, Message: "Internal error: " + err.Error()}
		return nil, StatusError{Code: http.StatusInternalServerError, Err: err}
	}

	sess.card = result.Card
	if result.CardErr != nil {
		sess.alert = &vanilla.Alert{Level: vanilla.AlertWarning, Message: msgNoNextCard}
	} else {
		sess.alert = &vanilla.Alert{Level: vanilla.AlertSuccess, Message: msgSaved}
	}
	return result.Deltas, nil
}

// newCard discards the rows and shows another card without writing a record.
func (h *handler) newCard(sess *session) []form.Delta {
	deltas := sess.form.Reset()
	card, err := h.sessions.draw()
	if err != nil {
		h.logger.Warn("new card unavailable", zap.Error(err))
		sess.alert = &vanilla.Alert{Level: vanilla.AlertWarning, Message: msgNoCardKept}
		return deltas
	}
	sess.card = card
	return deltas
}

func placeholderFor(f *form.Form, field form.Field) (registry.Placeholder, bool) {
	row, ok := f.Row(field.ID.Row)
	if !ok {
		return registry.Placeholder{}, false
	}
	for _, element := range row.Elements {
		if element.Kind == rows.ElementInput && element.Field == field.ID {
			return element.Placeholder, true
		}
	}
	return registry.Placeholder{}, false
}
